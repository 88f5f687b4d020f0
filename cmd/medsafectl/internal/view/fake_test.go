package view_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// readyWith is a bootstrap that already resolved to p.
type readyWith struct {
	p *sdk.Principal
}

func (r readyWith) Wait(context.Context) (*sdk.Principal, error) {
	return r.p, nil
}

var signedIn = readyWith{p: &sdk.Principal{IdentityProvider: "aad", UserID: "u1", UserDetails: "dr@medsafe.it", Roles: sdk.DefaultRoles}}

// fakeAPI records calls and answers from its fields. A non-nil error field
// makes the matching call fail.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	user    *sdk.User
	userErr error

	all        []sdk.Report
	allErr     error
	byCF       []sdk.Report
	byCFErr    error
	byExam     []sdk.Report
	byExamErr  error
	byAuthor   []sdk.Report
	byAuthorEr error

	uploaded  []sdk.UploadReportInput
	uploadErr error
	edited    []sdk.Report
	editErr   error
	deleteErr error

	pdf      *sdk.Download
	image    *sdk.Download
	download error

	users     []sdk.User
	usersErr  error
	toggleErr error

	genders    []sdk.Gender
	specs      []string
	enumErr    error
	profileErr error
	profiles   []sdk.User
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) ListReports(context.Context) ([]sdk.Report, error) {
	f.hit("ListReports")
	return f.all, f.allErr
}

func (f *fakeAPI) ReportsByFiscalCode(_ context.Context, cf string) ([]sdk.Report, error) {
	f.hit("ReportsByFiscalCode:" + cf)
	return f.byCF, f.byCFErr
}

func (f *fakeAPI) ReportByFileName(context.Context, string) (*sdk.Report, error) {
	f.hit("ReportByFileName")
	return nil, nil
}

func (f *fakeAPI) ReportsByExamType(_ context.Context, et sdk.ExamType) ([]sdk.Report, error) {
	f.hit("ReportsByExamType:" + string(et))
	return f.byExam, f.byExamErr
}

func (f *fakeAPI) ReportsByAuthor(_ context.Context, email string) ([]sdk.Report, error) {
	f.hit("ReportsByAuthor:" + email)
	return f.byAuthor, f.byAuthorEr
}

func (f *fakeAPI) UploadReport(_ context.Context, in sdk.UploadReportInput) error {
	f.hit("UploadReport")
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, in)
	return nil
}

func (f *fakeAPI) EditReport(_ context.Context, r sdk.Report) error {
	f.hit("EditReport")
	if f.editErr != nil {
		return f.editErr
	}
	f.edited = append(f.edited, r)
	return nil
}

func (f *fakeAPI) DeleteReport(context.Context, int64) error {
	f.hit("DeleteReport")
	return f.deleteErr
}

func (f *fakeAPI) DownloadPDF(context.Context, int64) (*sdk.Download, error) {
	f.hit("DownloadPDF")
	return f.pdf, f.download
}

func (f *fakeAPI) DownloadImage(context.Context, int64) (*sdk.Download, error) {
	f.hit("DownloadImage")
	return f.image, f.download
}

func (f *fakeAPI) CurrentUser(context.Context) (*sdk.User, error) {
	f.hit("CurrentUser")
	if f.userErr != nil {
		return nil, f.userErr
	}
	u := *f.user
	return &u, nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]sdk.User, error) {
	f.hit("ListUsers")
	return f.users, f.usersErr
}

func (f *fakeAPI) EnableUser(context.Context, int64) error {
	f.hit("EnableUser")
	return f.toggleErr
}

func (f *fakeAPI) DisableUser(context.Context, int64) error {
	f.hit("DisableUser")
	return f.toggleErr
}

func (f *fakeAPI) UpdateProfile(_ context.Context, u sdk.User) (*sdk.User, error) {
	f.hit("UpdateProfile")
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	f.profiles = append(f.profiles, u)
	return &u, nil
}

func (f *fakeAPI) Genders(context.Context) ([]sdk.Gender, error) {
	f.hit("Genders")
	return f.genders, f.enumErr
}

func (f *fakeAPI) Specializations(context.Context) ([]string, error) {
	f.hit("Specializations")
	return f.specs, f.enumErr
}

func apiErr(code int, msg string) error {
	return &sdk.APIError{StatusCode: code, Method: http.MethodGet, Path: "/test", Message: msg}
}

func doctor(enabled bool) *sdk.User {
	return &sdk.User{ID: 7, Email: "dr@medsafe.it", FullName: "Anna Bianchi", Role: sdk.RoleMedico, Gender: sdk.GenderFemale, Enabled: enabled}
}

// pendingBootstrap blocks Wait until release is closed. entered is closed on
// the first Wait.
type pendingBootstrap struct {
	p       *sdk.Principal
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newPendingBootstrap(p *sdk.Principal) *pendingBootstrap {
	return &pendingBootstrap{p: p, entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *pendingBootstrap) Wait(ctx context.Context) (*sdk.Principal, error) {
	b.once.Do(func() { close(b.entered) })
	select {
	case <-b.release:
		return b.p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

package view

import (
	"context"
	"errors"
	"strings"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
	"golang.org/x/sync/errgroup"
)

// Search lists reports, optionally narrowed by fiscal code and exam type.
type Search struct {
	Status
	FiscalCode string
	ExamType   sdk.ExamType
	Results    []sdk.Report

	reports   ReportAPI
	users     UserAPI
	ready     Bootstrap
	userEmail string
}

func NewSearch(reports ReportAPI, users UserAPI, ready Bootstrap) *Search {
	return &Search{reports: reports, users: users, ready: ready}
}

// UserEmail is the address used to put the caller's own reports first.
func (s *Search) UserEmail() string {
	return s.userEmail
}

// searchFailure tags a failed query with the message for its kind.
type searchFailure struct {
	msg string
	err error
}

func (f *searchFailure) Error() string { return f.msg + ": " + f.err.Error() }
func (f *searchFailure) Unwrap() error { return f.err }

// Run waits for the bootstrap and executes the search. Without criteria it
// lists everything; with both criteria the two queries run concurrently and
// only reports present in both results are kept.
func (s *Search) Run(ctx context.Context) {
	s.loading()
	s.Results = nil

	principal, err := s.ready.Wait(ctx)
	if err != nil {
		s.fail(errorText(err))
		return
	}
	if principal != nil {
		// Ordering is best effort; a missing user only disables it.
		if user, err := s.users.CurrentUser(ctx); err == nil {
			s.userEmail = user.Email
		}
	}

	fiscalCode := strings.ToUpper(strings.TrimSpace(s.FiscalCode))

	if fiscalCode == "" && s.ExamType == "" {
		all, err := s.reports.ListReports(ctx)
		if err != nil {
			s.fail(msgReportsLoadFailed)
			return
		}
		s.finish(all)
		return
	}

	var byCF, byExam []sdk.Report
	g, gctx := errgroup.WithContext(ctx)
	if fiscalCode != "" {
		g.Go(func() error {
			res, err := s.reports.ReportsByFiscalCode(gctx, fiscalCode)
			if err != nil {
				return &searchFailure{msg: msgSearchByCFFailed, err: err}
			}
			byCF = res
			return nil
		})
	}
	if s.ExamType != "" {
		g.Go(func() error {
			res, err := s.reports.ReportsByExamType(gctx, s.ExamType)
			if err != nil {
				return &searchFailure{msg: msgSearchByExamFail, err: err}
			}
			byExam = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var failure *searchFailure
		if errors.As(err, &failure) {
			s.fail(failure.msg)
			return
		}
		s.fail(errorText(err))
		return
	}

	switch {
	case fiscalCode != "" && s.ExamType != "":
		s.finish(IntersectByID(byCF, byExam))
	case fiscalCode != "":
		s.finish(byCF)
	default:
		s.finish(byExam)
	}
}

func (s *Search) finish(results []sdk.Report) {
	SortMineFirst(results, s.userEmail)
	s.Results = results
	s.succeed("")
}

// IsMine reports whether the caller wrote r.
func (s *Search) IsMine(r sdk.Report) bool {
	return s.userEmail != "" && r.AuthorEmail == s.userEmail
}

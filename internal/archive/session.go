package archive

import (
	"context"
	"errors"
	"fmt"
	"foodinspect/internal/inspection"
	"foodinspect/internal/report"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrPastLastPage is returned when a replay is asked to move beyond the
// archived pages.
var ErrPastLastPage = errors.New("no more archived pages")

// Session replays archived snapshots as a report.Session. The last archived
// page always reads as having a disabled next control, so a replay of a run
// that failed part way ends where the archive ends.
type Session struct {
	pages   []string
	markup  report.Markup
	current int
}

func NewSession(pages []string, markup report.Markup) *Session {
	return &Session{pages: pages, markup: markup}
}

// OpenSession loads the snapshots of a run into a Session.
func (a Archive) OpenSession(ctx context.Context, runId int64, markup report.Markup) (*Session, error) {
	_, err := a.Run(ctx, runId)
	if err != nil {
		return nil, err
	}
	pages, err := a.Snapshots(ctx, runId)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("run %d has no archived snapshots", runId)
	}
	return NewSession(pages, markup), nil
}

func (s *Session) document() (*goquery.Document, error) {
	if s.current >= len(s.pages) {
		return nil, ErrPastLastPage
	}
	return goquery.NewDocumentFromReader(strings.NewReader(s.pages[s.current]))
}

func (s *Session) Snapshot(ctx context.Context) (string, error) {
	if s.current >= len(s.pages) {
		return "", ErrPastLastPage
	}
	return s.pages[s.current], nil
}

func (s *Session) NextControl(ctx context.Context) (report.NextControl, error) {
	doc, err := s.document()
	if err != nil {
		return report.NextControl{}, err
	}
	control, err := report.ParseNextControl(doc, s.markup)
	if err != nil {
		return report.NextControl{}, err
	}
	if s.current == len(s.pages)-1 {
		control.Disabled = true
	}
	return control, nil
}

func (s *Session) ClickNext(ctx context.Context) error {
	if s.current+1 >= len(s.pages) {
		return ErrPastLastPage
	}
	s.current++
	return nil
}

func (s *Session) WaitForTable(ctx context.Context) error {
	doc, err := s.document()
	if err != nil {
		return err
	}
	if !report.HasTable(doc, s.markup) {
		return &inspection.StructuralError{
			What: fmt.Sprintf("archived page %d has no #%s", s.current+1, s.markup.TableID),
		}
	}
	return nil
}

func (s *Session) Close() error {
	return nil
}

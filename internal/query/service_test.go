package query

import (
	"context"
	"testing"

	"github.com/akave-ai/akavelog/internal/model"
)

type fakeReader struct {
	lastFilter Filter
	rows       []model.StoredLog
}

func (f *fakeReader) QueryLogs(_ context.Context, filter Filter) ([]model.StoredLog, error) {
	f.lastFilter = filter
	return f.rows, nil
}

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{
		0:    defaultLimit,
		-5:   defaultLimit,
		10:   10,
		1000: 1000,
		5000: hardLimit,
	}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestService_Query_ClampsLimitAndOffset(t *testing.T) {
	reader := &fakeReader{}
	s := New(reader)

	_, err := s.Query(context.Background(), Filter{ProjectID: 1, Limit: 0, Offset: -5})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if reader.lastFilter.Limit != defaultLimit {
		t.Errorf("Limit = %d, want default %d", reader.lastFilter.Limit, defaultLimit)
	}
	if reader.lastFilter.Offset != 0 {
		t.Errorf("Offset = %d, want clamped to 0", reader.lastFilter.Offset)
	}
}

func TestService_Query_PassesThroughTenantScope(t *testing.T) {
	reader := &fakeReader{}
	s := New(reader)

	_, err := s.Query(context.Background(), Filter{ProjectID: 42, Level: "error", Limit: 10})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if reader.lastFilter.ProjectID != 42 || reader.lastFilter.Level != "error" {
		t.Errorf("filter = %+v, want ProjectID=42 Level=error", reader.lastFilter)
	}
}

package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"pdfkeyword/pkg/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "edit url",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-d_9xYz/edit#gid=0",
			want: "1AbC-d_9xYz",
		},
		{
			name: "bare url",
			url:  "https://docs.google.com/spreadsheets/d/abc123",
			want: "abc123",
		},
		{
			name:    "not a sheet",
			url:     "https://example.com/documents/abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractSpreadsheetID(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordsToValues(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	records := []models.MatchRecord{
		{Page: 2, Line: 5, ContextStart: 3, ContextEnd: 7, Text: "ocr window"},
		{Page: 4, Text: "text layer paragraph"},
	}

	got := recordsToValues("deed.pdf", "lote", records, at)

	require.Len(t, got, 2)
	assert.Equal(t, []interface{}{"deed.pdf", "lote", 2, 5, 3, 7, "ocr window", "2026-03-01 09:30:00"}, got[0])
	assert.Equal(t, []interface{}{"deed.pdf", "lote", 4, "", "", "", "text layer paragraph", "2026-03-01 09:30:00"}, got[1])
	assert.Len(t, got[0], len(headers))
}

func TestNewSheetsService_MissingCredentials(t *testing.T) {
	_, err := NewSheetsService(context.Background(), "https://docs.google.com/spreadsheets/d/abc", Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CREDENTIALS")

	_, err = NewSheetsService(context.Background(), "not a url", Credentials{JSON: "{}"})
	assert.Error(t, err)
}

// fakeSheetsAPI serves the handful of Sheets v4 endpoints WriteMatches uses.
type fakeSheetsAPI struct {
	mu        sync.Mutex
	hasSheet  bool
	hasHeader bool
	calls     []string
	appended  sheets.ValueRange
	headerRow sheets.ValueRange
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-id"):
		f.calls = append(f.calls, "get")
		resp := &sheets.Spreadsheet{SpreadsheetId: "sheet-id"}
		if f.hasSheet {
			resp.Sheets = []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: "Matches", SheetId: 7}}}
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "batchUpdate")
		_ = json.NewEncoder(w).Encode(&sheets.BatchUpdateSpreadsheetResponse{
			Replies: []*sheets.Response{{AddSheet: &sheets.AddSheetResponse{
				Properties: &sheets.SheetProperties{Title: "Matches", SheetId: 9},
			}}},
		})

	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		f.calls = append(f.calls, "getHeader")
		resp := &sheets.ValueRange{}
		if f.hasHeader {
			resp.Values = [][]interface{}{{"Source"}}
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		f.calls = append(f.calls, "updateHeader")
		_ = json.NewDecoder(r.Body).Decode(&f.headerRow)
		_ = json.NewEncoder(w).Encode(&sheets.UpdateValuesResponse{})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		f.calls = append(f.calls, "append")
		_ = json.NewDecoder(r.Body).Decode(&f.appended)
		_ = json.NewEncoder(w).Encode(&sheets.AppendValuesResponse{})

	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newTestService(t *testing.T, api *fakeSheetsAPI) *Service {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return newService(svc, "sheet-id")
}

func TestWriteMatches_ExistingSheet(t *testing.T) {
	api := &fakeSheetsAPI{hasSheet: true, hasHeader: true}
	s := newTestService(t, api)

	records := []models.MatchRecord{{Page: 1, Line: 2, ContextStart: 1, ContextEnd: 3, Text: "a\nlote 12\nb"}}
	require.NoError(t, s.WriteMatches(context.Background(), "/in/deed.pdf", "lote", records, "Matches"))

	assert.Equal(t, []string{"get", "getHeader", "append"}, api.calls)
	require.Len(t, api.appended.Values, 1)
	row := api.appended.Values[0]
	assert.Equal(t, "deed.pdf", row[0])
	assert.Equal(t, "lote", row[1])
	assert.Equal(t, "a\nlote 12\nb", row[6])
}

func TestWriteMatches_CreatesSheetAndHeaders(t *testing.T) {
	api := &fakeSheetsAPI{}
	s := newTestService(t, api)

	require.NoError(t, s.WriteMatches(context.Background(), "deed.pdf", "lote", []models.MatchRecord{{Page: 1, Text: "lote"}}, "Matches"))

	assert.Equal(t, []string{"get", "batchUpdate", "getHeader", "updateHeader", "batchUpdate", "append"}, api.calls)
	require.Len(t, api.headerRow.Values, 1)
	assert.Equal(t, headers, api.headerRow.Values[0])
}

func TestWriteMatches_NoRecords(t *testing.T) {
	api := &fakeSheetsAPI{hasSheet: true, hasHeader: true}
	s := newTestService(t, api)

	require.NoError(t, s.WriteMatches(context.Background(), "deed.pdf", "lote", nil, "Matches"))
	assert.NotContains(t, api.calls, "append")
}

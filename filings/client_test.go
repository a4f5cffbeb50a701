package filings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_ResolveCIK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "Example Corp admin@example.com" {
			t.Errorf("unexpected user agent: %q", got)
		}
		if r.URL.Path != "/files/company_tickers.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
			"1": {"cik_str": 789019, "ticker": "MSFT", "title": "Microsoft Corp"}
		}`))
	}))
	defer server.Close()

	client := New("Example Corp admin@example.com", WithArchiveBaseURL(server.URL))
	cik, err := client.ResolveCIK(context.Background(), "msft")
	if err != nil {
		t.Fatalf("ResolveCIK: %v", err)
	}
	if cik != "0000789019" {
		t.Fatalf("unexpected cik: %q", cik)
	}
	if _, err := client.ResolveCIK(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for unknown ticker")
	}
}

func TestClient_RecentFilings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions/CIK0000320193.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"cik": "320193",
			"name": "Apple Inc.",
			"filings": {"recent": {
				"accessionNumber": ["0000320193-23-000106", "0000320193-23-000077"],
				"filingDate": ["2023-11-03", "2023-08-04"],
				"reportDate": ["2023-09-30", "2023-07-01"],
				"form": ["10-K", "10-Q"],
				"primaryDocument": ["aapl-20230930.htm", "aapl-20230701.htm"]
			}}
		}`))
	}))
	defer server.Close()

	client := New("test agent", WithDataBaseURL(server.URL))
	filings, err := client.RecentFilings(context.Background(), "320193", "10-K")
	if err != nil {
		t.Fatalf("RecentFilings: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("expected 1 filing, got %d", len(filings))
	}
	filing := filings[0]
	if filing.Form != "10-K" || filing.AccessionNumber != "0000320193-23-000106" {
		t.Fatalf("unexpected filing: %+v", filing)
	}
	if filing.Company != "Apple Inc." || filing.FilingDate != "2023-11-03" {
		t.Fatalf("unexpected filing details: %+v", filing)
	}

	all, err := client.RecentFilings(context.Background(), "320193")
	if err != nil {
		t.Fatalf("RecentFilings all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 filings, got %d", len(all))
	}
}

func TestClient_FetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Archives/edgar/data/320193/000032019323000106/aapl-20230930.htm" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`<html><head><style>p{}</style></head><body>
			<script>var x = 1;</script>
			<h1>Annual  Report</h1>
			<p>Revenue   increased
			this year.</p>
		</body></html>`))
	}))
	defer server.Close()

	client := New("test agent", WithArchiveBaseURL(server.URL))
	filing := Filing{
		CIK:             "320193",
		AccessionNumber: "0000320193-23-000106",
		PrimaryDocument: "aapl-20230930.htm",
	}
	text, err := client.FetchText(context.Background(), filing)
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if text != "Annual Report Revenue increased this year." {
		t.Fatalf("unexpected text: %q", text)
	}
	if strings.Contains(text, "var x") {
		t.Fatal("script content should be stripped")
	}
}

func TestClient_DocumentURL(t *testing.T) {
	client := New("agent")
	filing := Filing{CIK: "320193", AccessionNumber: "0000320193-23-000106", PrimaryDocument: "aapl.htm"}
	want := "https://www.sec.gov/Archives/edgar/data/320193/000032019323000106/aapl.htm"
	if got := client.DocumentURL(filing); got != want {
		t.Fatalf("DocumentURL = %q, want %q", got, want)
	}
}

func TestClient_RequiresUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent without a user agent")
	}))
	defer server.Close()

	client := New("", WithArchiveBaseURL(server.URL))
	_, err := client.ResolveCIK(context.Background(), "msft")
	if err == nil || !strings.Contains(err.Error(), "user agent is required") {
		t.Fatalf("expected user agent error, got %v", err)
	}
}

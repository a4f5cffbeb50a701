package filings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultArchiveBaseURL = "https://www.sec.gov"
	defaultDataBaseURL    = "https://data.sec.gov"
	tickersEndpoint       = "/files/company_tickers.json"
	defaultHTTPTimeout    = 60 * time.Second
)

// ClientOption configures the EDGAR client.
type ClientOption func(*Client)

// WithArchiveBaseURL overrides the www.sec.gov base URL.
func WithArchiveBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.ArchiveBaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithDataBaseURL overrides the data.sec.gov base URL.
func WithDataBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.DataBaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.HTTPClient = httpClient
		}
	}
}

// Client retrieves company filings from the SEC EDGAR system. EDGAR rejects
// requests without a descriptive User-Agent identifying the caller.
type Client struct {
	ArchiveBaseURL string
	DataBaseURL    string
	UserAgent      string
	HTTPClient     *http.Client
}

// Filing describes a single EDGAR filing entry.
type Filing struct {
	CIK             string `json:"cik"`
	Company         string `json:"company,omitempty"`
	AccessionNumber string `json:"accession_number"`
	Form            string `json:"form"`
	FilingDate      string `json:"filing_date"`
	ReportDate      string `json:"report_date,omitempty"`
	PrimaryDocument string `json:"primary_document"`
}

// New creates an EDGAR client with the supplied User-Agent
// (e.g. "Example Corp admin@example.com").
func New(userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		ArchiveBaseURL: defaultArchiveBaseURL,
		DataBaseURL:    defaultDataBaseURL,
		UserAgent:      userAgent,
		HTTPClient:     &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveCIK resolves a ticker symbol to a zero-padded 10 digit CIK.
func (c *Client) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	data, err := c.get(ctx, c.ArchiveBaseURL+tickersEndpoint)
	if err != nil {
		return "", fmt.Errorf("fetch company tickers: %w", err)
	}
	var listing map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		return "", fmt.Errorf("decode company tickers: %w", err)
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for _, entry := range listing {
		if strings.ToUpper(entry.Ticker) == ticker {
			return fmt.Sprintf("%010d", entry.CIK), nil
		}
	}
	return "", fmt.Errorf("ticker %q not found", ticker)
}

type submissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// RecentFilings lists recent filings for a CIK, optionally filtered by form
// types (e.g. "10-K", "S-1").
func (c *Client) RecentFilings(ctx context.Context, cik string, forms ...string) ([]Filing, error) {
	if len(cik) < 10 {
		cik = strings.Repeat("0", 10-len(cik)) + cik
	}
	data, err := c.get(ctx, c.DataBaseURL+"/submissions/CIK"+cik+".json")
	if err != nil {
		return nil, fmt.Errorf("fetch submissions for CIK %s: %w", cik, err)
	}
	var subs submissionsResponse
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	wanted := map[string]bool{}
	for _, form := range forms {
		wanted[strings.ToUpper(form)] = true
	}
	recent := subs.Filings.Recent
	var out []Filing
	for i := range recent.AccessionNumber {
		form := ""
		if i < len(recent.Form) {
			form = recent.Form[i]
		}
		if len(wanted) > 0 && !wanted[strings.ToUpper(form)] {
			continue
		}
		filing := Filing{
			CIK:             strings.TrimLeft(cik, "0"),
			Company:         subs.Name,
			AccessionNumber: recent.AccessionNumber[i],
			Form:            form,
		}
		if i < len(recent.FilingDate) {
			filing.FilingDate = recent.FilingDate[i]
		}
		if i < len(recent.ReportDate) {
			filing.ReportDate = recent.ReportDate[i]
		}
		if i < len(recent.PrimaryDocument) {
			filing.PrimaryDocument = recent.PrimaryDocument[i]
		}
		out = append(out, filing)
	}
	return out, nil
}

// DocumentURL returns the archive URL of a filing's primary document.
func (c *Client) DocumentURL(filing Filing) string {
	accession := strings.ReplaceAll(filing.AccessionNumber, "-", "")
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s", c.ArchiveBaseURL, filing.CIK, accession, filing.PrimaryDocument)
}

// FetchDocument downloads a filing's primary document.
func (c *Client) FetchDocument(ctx context.Context, filing Filing) ([]byte, error) {
	data, err := c.get(ctx, c.DocumentURL(filing))
	if err != nil {
		return nil, fmt.Errorf("fetch filing %s: %w", filing.AccessionNumber, err)
	}
	return data, nil
}

// FetchText downloads a filing document and reduces its HTML to plain text.
func (c *Client) FetchText(ctx context.Context, filing Filing) (string, error) {
	data, err := c.FetchDocument(ctx, filing)
	if err != nil {
		return "", err
	}
	return HTMLText(data)
}

// HTMLText strips markup from a filing document and collapses whitespace.
func HTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse filing html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	text := doc.Text()
	fields := strings.Fields(text)
	return strings.Join(fields, " "), nil
}

func (c *Client) get(ctx context.Context, targetURL string) ([]byte, error) {
	if strings.TrimSpace(c.UserAgent) == "" {
		return nil, fmt.Errorf("user agent is required, EDGAR rejects anonymous requests")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("edgar API error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}

package service

import (
	"context"
	"fmt"
)

// Filings lists recent EDGAR filings for a ticker, optionally fetching the
// primary document text of each filing.
func (s *Service) Filings(ctx context.Context, req FilingsRequest) (*FilingsResponse, error) {
	if s.filings == nil {
		return nil, fmt.Errorf("filings client is not configured")
	}
	if req.Ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	cik, err := s.filings.ResolveCIK(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}
	listed, err := s.filings.RecentFilings(ctx, cik, req.Forms...)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(listed) > req.Limit {
		listed = listed[:req.Limit]
	}
	resp := &FilingsResponse{CIK: cik}
	for _, filing := range listed {
		item := FilingText{Filing: filing}
		if req.FetchText {
			text, err := s.filings.FetchText(ctx, filing)
			if err != nil {
				return nil, err
			}
			item.Text = text
		}
		resp.Filings = append(resp.Filings, item)
	}
	s.logf("listed %d filings for %s (CIK %s)", len(resp.Filings), req.Ticker, cik)
	return resp, nil
}

// Sentiment scores texts with the hosted sentiment model.
func (s *Service) Sentiment(ctx context.Context, req SentimentRequest) (*SentimentResponse, error) {
	if s.sentiment == nil {
		return nil, fmt.Errorf("sentiment client is not configured")
	}
	predictions, err := s.sentiment.Classify(ctx, req.Texts)
	if err != nil {
		return nil, err
	}
	return &SentimentResponse{Predictions: predictions}, nil
}

// Train uploads labeled examples and starts a hosted fine-tune job.
func (s *Service) Train(ctx context.Context, req TrainRequest) (*TrainResponse, error) {
	if s.tuner == nil {
		return nil, fmt.Errorf("fine-tune client is not configured")
	}
	name := req.FileName
	if name == "" {
		name = "train.jsonl"
	}
	fileID, err := s.tuner.UploadTrainingFile(ctx, name, req.Examples)
	if err != nil {
		return nil, err
	}
	job, err := s.tuner.CreateJob(ctx, fileID)
	if err != nil {
		return nil, err
	}
	s.logf("fine-tune job %s created from %s", job.ID, fileID)
	if req.Wait {
		job, err = s.tuner.WaitForJob(ctx, job.ID)
		if err != nil {
			return nil, err
		}
	}
	return &TrainResponse{FileID: fileID, Job: job}, nil
}

package shopapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

type ReturnRequest struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"orderId"`
	Reason       string          `json:"reason"`
	Status       string          `json:"status"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
	CreatedAt    string          `json:"createdAt"`
}

type createReturnRequest struct {
	OrderID int64  `json:"orderId"`
	Reason  string `json:"reason"`
}

type ReturnService struct {
	c *Client
}

func (s *ReturnService) List(ctx context.Context) ([]ReturnRequest, error) {
	var out []ReturnRequest
	if err := s.c.doJSON(ctx, http.MethodGet, "/returns", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReturnService) Create(ctx context.Context, orderID int64, reason string) (*ReturnRequest, error) {
	var out ReturnRequest
	body := createReturnRequest{OrderID: orderID, Reason: reason}
	if err := s.c.doJSON(ctx, http.MethodPost, "/returns", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ReturnService) UpdateStatus(ctx context.Context, id int64, status string) (*ReturnRequest, error) {
	var out ReturnRequest
	q := url.Values{"status": {status}}
	if err := s.c.doJSON(ctx, http.MethodPut, idPath("/returns", id)+"/status", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

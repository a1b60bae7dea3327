package gateway

import "context"

type ClientInterface interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RemoteOrder, error)
	KeyID() string
}

var _ ClientInterface = (*Client)(nil)

package infra

import "context"

type ProductClientInterface interface {
	GetProductById(ctx context.Context, id string) (*ProductInfo, error)
}

var _ ProductClientInterface = (*ProductClient)(nil)

package usecase

import (
	"context"
	"time"

	"github.com/simplemem/simplemem-mcp/internal/metrics"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

const metricsDomain = "oauth"

// instrumentedClientUseCase records operation metrics around a ClientUseCase.
type instrumentedClientUseCase struct {
	inner   ClientUseCase
	metrics metrics.BusinessMetrics
}

// NewInstrumentedClientUseCase wraps a ClientUseCase with operation metrics.
func NewInstrumentedClientUseCase(inner ClientUseCase, bm metrics.BusinessMetrics) ClientUseCase {
	return &instrumentedClientUseCase{inner: inner, metrics: bm}
}

func (u *instrumentedClientUseCase) Generate(
	ctx context.Context,
	input *domain.GenerateClientInput,
) (*domain.GenerateClientOutput, error) {
	start := time.Now()
	out, err := u.inner.Generate(ctx, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, metrics.OperationClientCreate, start, err)
	return out, err
}

func (u *instrumentedClientUseCase) List(ctx context.Context) ([]domain.ClientSummary, error) {
	return u.inner.List(ctx)
}

func (u *instrumentedClientUseCase) Get(ctx context.Context, clientID string) (*domain.ClientSummary, error) {
	return u.inner.Get(ctx, clientID)
}

func (u *instrumentedClientUseCase) Revoke(ctx context.Context, clientID string) (bool, error) {
	start := time.Now()
	revoked, err := u.inner.Revoke(ctx, clientID)
	metrics.Observe(ctx, u.metrics, metricsDomain, metrics.OperationClientRevoke, start, err)
	return revoked, err
}

func (u *instrumentedClientUseCase) Verify(ctx context.Context, clientID, clientSecret string) (bool, error) {
	return u.inner.Verify(ctx, clientID, clientSecret)
}

// instrumentedAuthorizeUseCase records operation metrics around an AuthorizeUseCase.
type instrumentedAuthorizeUseCase struct {
	inner   AuthorizeUseCase
	metrics metrics.BusinessMetrics
}

// NewInstrumentedAuthorizeUseCase wraps an AuthorizeUseCase with operation metrics.
func NewInstrumentedAuthorizeUseCase(inner AuthorizeUseCase, bm metrics.BusinessMetrics) AuthorizeUseCase {
	return &instrumentedAuthorizeUseCase{inner: inner, metrics: bm}
}

func (u *instrumentedAuthorizeUseCase) IssueCode(ctx context.Context, input *IssueCodeInput) (string, error) {
	start := time.Now()
	code, err := u.inner.IssueCode(ctx, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, metrics.OperationCodeIssue, start, err)
	return code, err
}

func (u *instrumentedAuthorizeUseCase) RedeemCode(
	ctx context.Context,
	input *RedeemCodeInput,
) (*domain.AuthorizationCode, error) {
	start := time.Now()
	record, err := u.inner.RedeemCode(ctx, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, metrics.OperationCodeRedeem, start, err)
	return record, err
}

// instrumentedTokenUseCase records operation metrics around a TokenUseCase.
type instrumentedTokenUseCase struct {
	inner   TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewInstrumentedTokenUseCase wraps a TokenUseCase with operation metrics.
func NewInstrumentedTokenUseCase(inner TokenUseCase, bm metrics.BusinessMetrics) TokenUseCase {
	return &instrumentedTokenUseCase{inner: inner, metrics: bm}
}

func (u *instrumentedTokenUseCase) ClientCredentials(
	ctx context.Context,
	clientID, clientSecret, scope string,
) (*domain.IssueTokenOutput, error) {
	start := time.Now()
	out, err := u.inner.ClientCredentials(ctx, clientID, clientSecret, scope)
	metrics.Observe(ctx, u.metrics, metricsDomain, metrics.OperationTokenIssue, start, err)
	return out, err
}

func (u *instrumentedTokenUseCase) ExchangeCode(
	ctx context.Context,
	input *ExchangeCodeInput,
) (*domain.IssueTokenOutput, error) {
	start := time.Now()
	out, err := u.inner.ExchangeCode(ctx, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, metrics.OperationTokenIssue, start, err)
	return out, err
}

func (u *instrumentedTokenUseCase) Refresh(ctx context.Context, refreshToken string) (*domain.IssueTokenOutput, error) {
	start := time.Now()
	out, err := u.inner.Refresh(ctx, refreshToken)
	metrics.Observe(ctx, u.metrics, metricsDomain, metrics.OperationTokenRefresh, start, err)
	return out, err
}

func (u *instrumentedTokenUseCase) Verify(ctx context.Context, token string) (*domain.TokenClaims, error) {
	start := time.Now()
	claims, err := u.inner.Verify(ctx, token)
	metrics.Observe(ctx, u.metrics, metricsDomain, metrics.OperationTokenVerify, start, err)
	return claims, err
}

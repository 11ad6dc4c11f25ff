package google

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
)

func TestExtractText(t *testing.T) {
	body := &docs.Body{
		Content: []*docs.StructuralElement{
			{Paragraph: &docs.Paragraph{Elements: []*docs.ParagraphElement{
				{TextRun: &docs.TextRun{Content: "Hello "}},
				{TextRun: &docs.TextRun{Content: "world\n"}},
			}}},
			{Table: &docs.Table{TableRows: []*docs.TableRow{
				{TableCells: []*docs.TableCell{
					{Content: []*docs.StructuralElement{
						{Paragraph: &docs.Paragraph{Elements: []*docs.ParagraphElement{
							{TextRun: &docs.TextRun{Content: "cell\n"}},
						}}},
					}},
				}},
			}}},
		},
	}

	assert.Equal(t, "Hello world\ncell\n", extractText(body))
	assert.Empty(t, extractText(nil))
	assert.Empty(t, extractText(&docs.Body{}))
}

func TestBodyEndIndex(t *testing.T) {
	assert.Equal(t, int64(1), bodyEndIndex(nil))
	assert.Equal(t, int64(1), bodyEndIndex(&docs.Body{}))

	body := &docs.Body{Content: []*docs.StructuralElement{
		{EndIndex: 10},
		{EndIndex: 42},
	}}
	assert.Equal(t, int64(42), bodyEndIndex(body))
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `meeting notes`, escapeQuery("meeting notes"))
	assert.Equal(t, `o\'brien`, escapeQuery("o'brien"))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
}

func TestDocumentURL(t *testing.T) {
	assert.Equal(t, "https://docs.google.com/document/d/abc123/edit", DocumentURL("abc123"))
}

func TestParseTime(t *testing.T) {
	parsed := parseTime("2026-08-30T10:00:00Z")
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), parsed)

	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("not a time").IsZero())
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, WrapError(plain))

	assert.ErrorIs(t, WrapError(&googleapi.Error{Code: 401}), ErrUnauthorized)
	assert.ErrorIs(t, WrapError(&googleapi.Error{Code: 403}), ErrForbidden)
	assert.ErrorIs(t, WrapError(&googleapi.Error{Code: 404}), ErrNotFound)
	assert.ErrorIs(t, WrapError(&googleapi.Error{Code: 429}), ErrRateLimited)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.True(t, IsRateLimited(&googleapi.Error{Code: 429}))
	assert.False(t, IsRateLimited(&googleapi.Error{Code: 500}))
	assert.False(t, IsRateLimited(errors.New("other")))
}

type staticTokenProvider struct {
	token string
	err   error
	calls int
}

func (p *staticTokenProvider) AccessToken(_ context.Context, _ string) (string, error) {
	p.calls++
	return p.token, p.err
}

func TestTokenSource_Token(t *testing.T) {
	provider := &staticTokenProvider{token: "at-1"}
	ts := NewTokenSource(context.Background(), provider, "u1")

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "at-1", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)

	// Every Token call goes back to the provider, which owns caching and
	// refresh; the adapter itself never caches.
	_, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestTokenSource_ProviderError(t *testing.T) {
	provider := &staticTokenProvider{err: errors.New("refresh failed")}
	ts := NewTokenSource(context.Background(), provider, "u1")

	_, err := ts.Token()
	require.Error(t, err)
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	rl := NewRateLimiter(ServiceDocs)
	assert.True(t, rl.Allow())

	rl.RecordRateLimitError(60)
	assert.False(t, rl.Allow())
}

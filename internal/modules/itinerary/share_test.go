package itinerary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trip-planner/internal/models"
	"trip-planner/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailer struct {
	sent []string
	err  error
}

func (f *fakeEmailer) SendEmail(ctx context.Context, to, subject, plain, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func newShareFixture(t *testing.T, cfg Config, emailer email.ServiceInterface) (*fixture, int) {
	t.Helper()
	f := newFixture(t, cfg)
	if emailer != nil {
		templates, err := email.NewTemplateManager()
		require.NoError(t, err)
		f.svc = NewService(f.repo, f.catalog, f.timing, f.distance, emailer, templates, cfg)
	}

	itin, err := f.svc.CreateItinerary(context.Background(), testUser, createRequest())
	require.NoError(t, err)
	return f, itin.ID
}

func TestCreateShareCodeSinglePolicyReusesCode(t *testing.T) {
	f, itineraryID := newShareFixture(t, defaultConfig(), nil)

	first, err := f.svc.CreateShareCode(context.Background(), testUser, itineraryID, models.CreateShareCodeRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, first.Code)
	assert.True(t, strings.HasSuffix(first.ShareURL, "/shared/"+first.Code))

	second, err := f.svc.CreateShareCode(context.Background(), testUser, itineraryID, models.CreateShareCodeRequest{})
	require.NoError(t, err)
	assert.Equal(t, first.Code, second.Code)
	assert.Len(t, f.repo.shares[itineraryID], 1)
}

func TestCreateShareCodeAppendPolicyMintsFreshCodes(t *testing.T) {
	cfg := defaultConfig()
	cfg.SharePolicy = "append"
	f, itineraryID := newShareFixture(t, cfg, nil)

	first, err := f.svc.CreateShareCode(context.Background(), testUser, itineraryID, models.CreateShareCodeRequest{})
	require.NoError(t, err)
	second, err := f.svc.CreateShareCode(context.Background(), testUser, itineraryID, models.CreateShareCodeRequest{})
	require.NoError(t, err)

	assert.NotEqual(t, first.Code, second.Code)
	assert.Len(t, f.repo.shares[itineraryID], 2)
}

func TestCreateShareCodeSendsEmail(t *testing.T) {
	emailer := &fakeEmailer{}
	f, itineraryID := newShareFixture(t, defaultConfig(), emailer)

	resp, err := f.svc.CreateShareCode(context.Background(), testUser, itineraryID,
		models.CreateShareCodeRequest{Email: "friend@example.com"})
	require.NoError(t, err)

	assert.True(t, resp.EmailSent)
	assert.Equal(t, []string{"friend@example.com"}, emailer.sent)
}

func TestCreateShareCodeEmailFailureIsNotFatal(t *testing.T) {
	emailer := &fakeEmailer{err: errors.New("ses unavailable")}
	f, itineraryID := newShareFixture(t, defaultConfig(), emailer)

	resp, err := f.svc.CreateShareCode(context.Background(), testUser, itineraryID,
		models.CreateShareCodeRequest{Email: "friend@example.com"})
	require.NoError(t, err)

	assert.False(t, resp.EmailSent)
	assert.NotEmpty(t, resp.Code, "the code is still minted when mail fails")
}

func TestCreateShareCodeForeignItinerary(t *testing.T) {
	f, itineraryID := newShareFixture(t, defaultConfig(), nil)

	_, err := f.svc.CreateShareCode(context.Background(), "someone-else", itineraryID, models.CreateShareCodeRequest{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetShareCodeBeforeSharing(t *testing.T) {
	f, itineraryID := newShareFixture(t, defaultConfig(), nil)

	_, err := f.svc.GetShareCode(context.Background(), testUser, itineraryID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveShareCode(t *testing.T) {
	f, itineraryID := newShareFixture(t, defaultConfig(), nil)

	created, err := f.svc.CreateShareCode(context.Background(), testUser, itineraryID, models.CreateShareCodeRequest{})
	require.NoError(t, err)

	// Resolution is the public path: no user identity involved.
	menu, err := f.svc.ResolveShareCode(context.Background(), created.Code)
	require.NoError(t, err)
	assert.Equal(t, itineraryID, menu.ID)
	assert.Equal(t, "Kyoto in spring", menu.Title)

	_, err = f.svc.ResolveShareCode(context.Background(), "no-such-code")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.ResolveShareCode(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

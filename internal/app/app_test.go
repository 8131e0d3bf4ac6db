package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/sitebuilder-backend/internal/data/repos"
	"github.com/yungbote/sitebuilder-backend/internal/data/repos/testutil"
	types "github.com/yungbote/sitebuilder-backend/internal/domain"
)

func TestSweepExpiredTokens(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	tokens := repos.NewUserTokenRepo(gdb, log)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, gdb, "sweep-"+uuid.NewString()+"@example.com")
	expired, live := "refresh-"+uuid.NewString(), "refresh-"+uuid.NewString()
	_, err := tokens.Create(ctx, nil, []*types.UserToken{
		{UserID: user.ID, AccessToken: "access-" + expired, RefreshToken: expired, ExpiresAt: time.Now().Add(-time.Hour)},
		{UserID: user.ID, AccessToken: "access-" + live, RefreshToken: live, ExpiresAt: time.Now().Add(time.Hour)},
	})
	require.NoError(t, err)

	sweepCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		sweepExpiredTokens(sweepCtx, log, tokens, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		rows, err := tokens.GetByRefreshTokens(ctx, nil, []string{expired})
		return err == nil && len(rows) == 0
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	<-done

	rows, err := tokens.GetByRefreshTokens(ctx, nil, []string{live})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPingDB(t *testing.T) {
	require.NoError(t, pingDB(testutil.DB(t))(context.Background()))
}

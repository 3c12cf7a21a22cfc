package controllers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/toonhive/toonhive/internal/cache"
	"github.com/toonhive/toonhive/internal/models"
	"github.com/toonhive/toonhive/internal/search"
	"github.com/toonhive/toonhive/internal/services/blobstore"
)

// testEnv wires a full coordinator stack against a temp sqlite file and an
// in-memory search index.
type testEnv struct {
	db        *models.Database
	cache     *cache.Store
	search    *search.Synchronizer
	catalog   *CatalogController
	episodes  *EpisodeController
	ratings   *RatingController
	comments  *CommentController
	favorites *FavoriteController
	views     *ViewController
	users     *UserController
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	synchronizer, err := search.NewMemOnly(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = synchronizer.Close() })

	blobs, err := blobstore.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	store := cache.NewStore(time.Minute)
	logger := zerolog.Nop()

	return &testEnv{
		db:        db,
		cache:     store,
		search:    synchronizer,
		catalog:   NewCatalogController(db, store, synchronizer, blobs, logger),
		episodes:  NewEpisodeController(db, store, blobs, logger),
		ratings:   NewRatingController(db, store, logger),
		comments:  NewCommentController(db, store, logger),
		favorites: NewFavoriteController(db, store, logger),
		views:     NewViewController(db, store, logger),
		users:     NewUserController(db, logger),
	}
}

func (e *testEnv) createTitle(t *testing.T, name string, day models.Day) *models.Title {
	t.Helper()
	title, err := e.catalog.CreateTitle(context.Background(), TitleInput{
		Name:    name,
		Creator: "creator",
		Day:     day,
		Genre:   "fantasy",
	})
	require.NoError(t, err)
	return title
}

func (e *testEnv) createEpisode(t *testing.T, titleID uint, name string) *models.Episode {
	t.Helper()
	episode, err := e.episodes.CreateEpisode(titleID, EpisodeInput{Name: name})
	require.NoError(t, err)
	return episode
}

func (e *testEnv) createUser(t *testing.T, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    nickname + "@example.com",
		Nickname: nickname,
		APIToken: "token-" + nickname,
	}
	require.NoError(t, e.db.CreateUser(user))
	return user
}

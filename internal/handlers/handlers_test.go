package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/inkwell-social/inkwell/internal/cache"
	"github.com/inkwell-social/inkwell/internal/models"
	"github.com/inkwell-social/inkwell/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	e  *echo.Echo
	db *gorm.DB

	userRepo    repositories.UserRepository
	postRepo    repositories.PostRepository
	followRepo  repositories.FollowRepository
	commentRepo repositories.CommentRepository

	pageCache *cache.PageCache

	auth     *AuthHandler
	posts    *PostHandler
	comments *CommentHandler
	follows  *FollowHandler
	feed     *FeedHandler
	groups   *GroupHandler
	users    *UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))

	env := &testEnv{
		e:           echo.New(),
		db:          db,
		userRepo:    repositories.NewPostgresUserRepository(db),
		postRepo:    repositories.NewPostgresPostRepository(db),
		followRepo:  repositories.NewPostgresFollowRepository(db),
		commentRepo: repositories.NewPostgresCommentRepository(db),
		pageCache:   cache.NewPageCache(cache.DefaultTTL),
	}
	groupRepo := repositories.NewPostgresGroupRepository(db)

	env.auth = NewAuthHandler(env.userRepo)
	env.posts = NewPostHandler(env.postRepo, groupRepo, env.commentRepo, env.pageCache)
	env.comments = NewCommentHandler(env.commentRepo, env.postRepo)
	env.follows = NewFollowHandler(env.followRepo, env.userRepo)
	env.feed = NewFeedHandler(env.postRepo)
	env.groups = NewGroupHandler(groupRepo, env.postRepo)
	env.users = NewUserHandler(env.userRepo, env.postRepo, env.followRepo)
	return env
}

func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, env.userRepo.CreateUser(user))
	return user
}

func (env *testEnv) createPost(t *testing.T, author *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID}
	require.NoError(t, env.postRepo.CreatePost(post))
	return post
}

// request builds an echo context, optionally authenticated as uid.
func (env *testEnv) request(method, target, body string, uid uint) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if uid != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: uid, Username: fmt.Sprintf("user%d", uid)})
	}
	return c, rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

type pageBody struct {
	Items      []models.Post `json:"items"`
	Number     int           `json:"page"`
	TotalItems int64         `json:"total_items"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_prev"`
}

type feedResponse struct {
	Page pageBody `json:"page"`
}

func TestSignupSigninRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.request(http.MethodPost, "/api/v1/auth/signup",
		`{"username":"alice","email":"alice@example.com","password":"secret-pass"}`, 0)
	require.NoError(t, env.auth.Signup(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")

	c, rec = env.request(http.MethodPost, "/api/v1/auth/signin",
		`{"email":"alice@example.com","password":"secret-pass"}`, 0)
	require.NoError(t, env.auth.SignIn(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong password is rejected
	c, _ = env.request(http.MethodPost, "/api/v1/auth/signin",
		`{"email":"alice@example.com","password":"wrong-pass"}`, 0)
	err := env.auth.SignIn(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))

	// Duplicate username is rejected
	c, _ = env.request(http.MethodPost, "/api/v1/auth/signup",
		`{"username":"alice","email":"other@example.com","password":"secret-pass"}`, 0)
	err = env.auth.Signup(c)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestCreatePostSetsAuthor(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	before, err := env.postRepo.CountAll()
	require.NoError(t, err)

	c, rec := env.request(http.MethodPost, "/api/v1/posts", `{"text":"hello world"}`, alice.ID)
	require.NoError(t, env.posts.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	after, err := env.postRepo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	var created models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, alice.ID, created.AuthorID)
	assert.Equal(t, "hello world", created.Text)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreatePostRejectsUnknownGroup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	c, _ := env.request(http.MethodPost, "/api/v1/posts", `{"text":"hi","group_id":999}`, alice.ID)
	err := env.posts.CreatePost(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	count, err2 := env.postRepo.CountAll()
	require.NoError(t, err2)
	assert.Zero(t, count)
}

func TestCreatePostRejectsEmptyText(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	c, _ := env.request(http.MethodPost, "/api/v1/posts", `{"text":""}`, alice.ID)
	err := env.posts.CreatePost(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestUpdatePostByNonAuthorLeavesPostUnchanged(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice, "original")

	c, _ := env.request(http.MethodPut, "/api/v1/posts/1", `{"text":"defaced"}`, bob.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	err := env.posts.UpdatePost(c)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	stored, err2 := env.postRepo.GetPostByID(post.ID)
	require.NoError(t, err2)
	assert.Equal(t, "original", stored.Text)
	assert.Equal(t, alice.ID, stored.AuthorID)
}

func TestUpdatePostByAuthor(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	post := env.createPost(t, alice, "original")
	created := post.CreatedAt

	c, rec := env.request(http.MethodPut, "/api/v1/posts/1", `{"text":"edited"}`, alice.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, env.posts.UpdatePost(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := env.postRepo.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", stored.Text)
	assert.Equal(t, alice.ID, stored.AuthorID)
	assert.Equal(t, created.Unix(), stored.CreatedAt.Unix())
}

func TestDeletePostByNonAuthor(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice, "keep me")

	c, _ := env.request(http.MethodDelete, "/api/v1/posts/1", "", bob.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	err := env.posts.DeletePost(c)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	_, err = env.postRepo.GetPostByID(post.ID)
	assert.NoError(t, err)
}

func TestPostDetailContext(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	post := env.createPost(t, alice, "discuss")
	require.NoError(t, env.commentRepo.CreateComment(&models.Comment{
		Text: "nice", PostID: post.ID, AuthorID: alice.ID,
	}))

	c, rec := env.request(http.MethodGet, "/api/v1/posts/1", "", 0)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, env.posts.GetPost(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "post")
	assert.Contains(t, resp, "author")
	assert.Contains(t, resp, "comments")
}

func TestCommentOnMissingPost(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	c, _ := env.request(http.MethodPost, "/api/v1/posts/999/comments", `{"text":"hi"}`, alice.ID)
	c.SetParamNames("post_id")
	c.SetParamValues("999")
	err := env.comments.CreateComment(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestFollowTwiceKeepsOneEdge(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	for i := 0; i < 2; i++ {
		c, rec := env.request(http.MethodPost, "/api/v1/profiles/bob/follow", "", alice.ID)
		c.SetParamNames("username")
		c.SetParamValues("bob")
		require.NoError(t, env.follows.FollowUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", alice.ID, bob.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFollowSelfCreatesNoEdge(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	c, rec := env.request(http.MethodPost, "/api/v1/profiles/alice/follow", "", alice.ID)
	c.SetParamNames("username")
	c.SetParamValues("alice")
	require.NoError(t, env.follows.FollowUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"following":false`)

	var count int64
	require.NoError(t, env.db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnfollowWithoutEdge(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")

	c, rec := env.request(http.MethodDelete, "/api/v1/profiles/bob/follow", "", alice.ID)
	c.SetParamNames("username")
	c.SetParamValues("bob")
	require.NoError(t, env.follows.UnfollowUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFollowUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	c, _ := env.request(http.MethodPost, "/api/v1/profiles/ghost/follow", "", alice.ID)
	c.SetParamNames("username")
	c.SetParamValues("ghost")
	err := env.follows.FollowUser(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestFollowFeedShowsOnlyFollowedAuthors(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer")
	followed := env.createUser(t, "followed")
	ignored := env.createUser(t, "ignored")

	env.createPost(t, followed, "from followed")
	env.createPost(t, ignored, "from ignored")
	require.NoError(t, env.followRepo.CreateFollow(&models.Follow{UserID: viewer.ID, AuthorID: followed.ID}))

	c, rec := env.request(http.MethodGet, "/api/v1/feed", "", viewer.ID)
	require.NoError(t, env.feed.GetFollowFeed(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp feedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Page.Items, 1)
	assert.Equal(t, followed.ID, resp.Page.Items[0].AuthorID)
}

func TestHomeFeedClampsPastLastPage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	for i := 0; i < 13; i++ {
		env.createPost(t, alice, fmt.Sprintf("post %d", i))
	}

	c, rec := env.request(http.MethodGet, "/api/v1/posts?page=3", "", 0)
	require.NoError(t, env.feed.GetHomeFeed(c))

	var resp feedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page.Number)
	assert.Equal(t, 2, resp.Page.TotalPages)
	assert.Len(t, resp.Page.Items, 3)
	assert.False(t, resp.Page.HasNext)
	assert.True(t, resp.Page.HasPrev)

	// The clamped page serves the same slice as the real last page
	c2, rec2 := env.request(http.MethodGet, "/api/v1/posts?page=2", "", 0)
	require.NoError(t, env.feed.GetHomeFeed(c2))
	var last feedResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &last))
	require.Len(t, last.Page.Items, 3)
	for i := range last.Page.Items {
		assert.Equal(t, last.Page.Items[i].ID, resp.Page.Items[i].ID)
	}
}

func TestGroupFeedNotFound(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(http.MethodGet, "/api/v1/groups/missing", "", 0)
	c.SetParamNames("slug")
	c.SetParamValues("missing")
	err := env.groups.GetGroupFeed(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestProfileFollowingFlag(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer")
	author := env.createUser(t, "author")
	require.NoError(t, env.followRepo.CreateFollow(&models.Follow{UserID: viewer.ID, AuthorID: author.ID}))

	// Anonymous viewers get no following flag
	c, rec := env.request(http.MethodGet, "/api/v1/profiles/author", "", 0)
	c.SetParamNames("username")
	c.SetParamValues("author")
	require.NoError(t, env.users.GetProfile(c))
	var anon map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &anon))
	assert.NotContains(t, anon, "following")
	assert.Contains(t, anon, "page")
	assert.Contains(t, anon, "author")

	// Signed-in followers see the flag set
	c, rec = env.request(http.MethodGet, "/api/v1/profiles/author", "", viewer.ID)
	c.SetParamNames("username")
	c.SetParamValues("author")
	require.NoError(t, env.users.GetProfile(c))
	assert.Contains(t, rec.Body.String(), `"following":true`)
}

func TestHomeFeedCachedUntilClear(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	env.createPost(t, alice, "first post")

	e := echo.New()
	e.GET("/api/v1/posts", env.feed.GetHomeFeed, env.pageCache.Middleware())

	serve := func() string {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Body.String()
	}

	first := serve()

	// A write that bypasses invalidation is invisible within the TTL
	env.createPost(t, alice, "second post")
	assert.Equal(t, first, serve())

	env.pageCache.Clear()
	refreshed := serve()
	assert.NotEqual(t, first, refreshed)
	assert.Contains(t, refreshed, "second post")
}

func TestCreatePostInvalidatesHomeFeedCache(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	env.createPost(t, alice, "first post")

	e := echo.New()
	e.GET("/api/v1/posts", env.feed.GetHomeFeed, env.pageCache.Middleware())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	first := rec.Body.String()
	require.Contains(t, first, "first post")

	// Creating through the handler clears the page cache
	c, _ := env.request(http.MethodPost, "/api/v1/posts", `{"text":"second post"}`, alice.ID)
	require.NoError(t, env.posts.CreatePost(c))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "second post")
}

func TestDeleteProfileCascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	env.createPost(t, alice, "mine")

	c, rec := env.request(http.MethodDelete, "/api/v1/profile", "", alice.ID)
	require.NoError(t, env.users.DeleteProfile(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	count, err := env.postRepo.CountAll()
	require.NoError(t, err)
	assert.Zero(t, count)

	// Ordering sanity after delete: feed is just empty
	posts, err := env.postRepo.ListAll(0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"goblog/auth"
	"goblog/database"
	"goblog/handlers"
	"goblog/models"
	"goblog/repositories"
	"goblog/routes"
	"goblog/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testApp wires the full router against an in-memory database. Requests go
// through the real middleware chain; the cookie jar mimics a browser so the
// session survives across requests.
type testApp struct {
	t       *testing.T
	router  http.Handler
	db      *gorm.DB
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	renderer, err := templates.NewRenderer()
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	sessions := auth.NewSessionManager("development-key", userRepo)

	router := routes.SetupRoutes(
		handlers.NewPageHandler(postRepo, commentRepo, sessions, renderer),
		handlers.NewPostHandler(postRepo, sessions, renderer),
		handlers.NewAuthHandler(userRepo, sessions, renderer),
		sessions,
	)

	return &testApp{t: t, router: router, db: db, cookies: map[string]*http.Cookie{}}
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range app.cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(app.cookies, c.Name)
		} else {
			app.cookies[c.Name] = c
		}
	}
	return rr
}

func (app *testApp) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	return app.do(req)
}

func (app *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return app.do(req)
}

func (app *testApp) register(username, email, password string) *httptest.ResponseRecorder {
	return app.postForm("/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
}

func (app *testApp) login(email, password string) *httptest.ResponseRecorder {
	return app.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func (app *testApp) logout() *httptest.ResponseRecorder {
	return app.get("/logout")
}

func (app *testApp) addPost(title, imgURL, content string) *httptest.ResponseRecorder {
	return app.postForm("/add", url.Values{
		"title":   {title},
		"img_url": {imgURL},
		"content": {content},
	})
}

func (app *testApp) userCount() int64 {
	var count int64
	require.NoError(app.t, app.db.Model(&models.User{}).Count(&count).Error)
	return count
}

func (app *testApp) postCount() int64 {
	var count int64
	require.NoError(app.t, app.db.Model(&models.Post{}).Count(&count).Error)
	return count
}

func (app *testApp) commentCount() int64 {
	var count int64
	require.NoError(app.t, app.db.Model(&models.Comment{}).Count(&count).Error)
	return count
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	app := newTestApp(t)

	resp := app.register("alice", "a@x.com", "password1")
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))
	assert.Equal(t, int64(1), app.userCount())

	home := app.get("/")
	require.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "Signed in as alice")
}

func TestRegisterDuplicateEmailRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "a@x.com", "password1")
	app.logout()

	resp := app.register("someone", "a@x.com", "password2")
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
	assert.Equal(t, int64(1), app.userCount(), "second attempt must not create a user")

	login := app.get("/login")
	assert.Contains(t, login.Body.String(), "already signed up with that email")
}

func TestRegisterDuplicateUsernameRedirectsBack(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "a@x.com", "password1")
	app.logout()

	resp := app.register("alice", "other@x.com", "password2")
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/register", resp.Header().Get("Location"))
	assert.Equal(t, int64(1), app.userCount())

	register := app.get("/register")
	assert.Contains(t, register.Body.String(), "Username not available!")
}

func TestRegisterValidationRerendersForm(t *testing.T) {
	app := newTestApp(t)

	resp := app.register("", "a@x.com", "password1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "You have to enter a username")
	assert.Equal(t, int64(0), app.userCount())

	resp = app.register("alice", "not-an-email", "password1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "You have to enter a valid email address")
	assert.Equal(t, int64(0), app.userCount())

	resp = app.register("alice", "a@x.com", "short")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "The password must be between 8 and 32 characters")
	assert.Equal(t, int64(0), app.userCount())
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "a@x.com", "password1")
	app.logout()

	// Unknown email
	resp := app.login("nobody@x.com", "password1")
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
	login := app.get("/login")
	assert.Contains(t, login.Body.String(), "That email does not exist, please try again.")

	// Wrong password
	resp = app.login("a@x.com", "wrongpassword")
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
	login = app.get("/login")
	assert.Contains(t, login.Body.String(), "Password incorrect, please try again.")

	// Session must still be anonymous after the failed attempts.
	home := app.get("/")
	assert.NotContains(t, home.Body.String(), "Signed in as")

	// Correct credentials
	resp = app.login("a@x.com", "password1")
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))
	home = app.get("/")
	assert.Contains(t, home.Body.String(), "Signed in as alice")
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "a@x.com", "password1")

	resp := app.logout()
	require.Equal(t, http.StatusFound, resp.Code)

	home := app.get("/")
	assert.NotContains(t, home.Body.String(), "Signed in as")
}

func TestFirstRegisteredAccountIsAdmin(t *testing.T) {
	app := newTestApp(t)

	app.register("root", "r@x.com", "password1")
	resp := app.get("/add")
	assert.Equal(t, http.StatusOK, resp.Code, "first account must pass the admin gate")
	app.logout()

	app.register("alice", "a@x.com", "password1")
	for _, path := range []string{"/add", "/edit/1", "/delete/1"} {
		resp := app.get(path)
		assert.Equal(t, http.StatusForbidden, resp.Code, "non-admin must be rejected at %s", path)
	}
	resp = app.addPost("t", "https://x.com/a.png", "c")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, int64(0), app.postCount(), "forbidden request must not create a post")
}

func TestAdminGateRejectsAnonymous(t *testing.T) {
	app := newTestApp(t)
	resp := app.get("/add")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)
	app.register("root", "r@x.com", "password1")

	resp := app.addPost("First post", "https://example.com/cover.png", "<p>Hello</p>")
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))

	var post models.Post
	require.NoError(t, app.db.Preload("User").First(&post).Error)
	assert.Equal(t, "First post", post.Title)
	assert.Equal(t, "root", post.User.Username)

	home := app.get("/")
	assert.Contains(t, home.Body.String(), "First post")
}

func TestCreatePostValidation(t *testing.T) {
	app := newTestApp(t)
	app.register("root", "r@x.com", "password1")

	resp := app.addPost("", "https://example.com/cover.png", "<p>Hello</p>")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "You have to enter a title")
	assert.Equal(t, int64(0), app.postCount())

	resp = app.addPost("Title", "not-a-url", "<p>Hello</p>")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "You have to enter a valid image URL")
	assert.Equal(t, int64(0), app.postCount())
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	app.register("root", "r@x.com", "password1")
	app.addPost("Original", "https://x.com/a.png", "<p>one</p>")

	var before models.Post
	require.NoError(t, app.db.First(&before).Error)

	// The edit form is pre-filled from the stored post.
	form := app.get(fmt.Sprintf("/edit/%d", before.ID))
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), "Original")

	edit := url.Values{
		"title":   {"Updated"},
		"img_url": {"https://x.com/b.png"},
		"content": {"<p>two</p>"},
	}
	resp := app.postForm(fmt.Sprintf("/edit/%d", before.ID), edit)
	require.Equal(t, http.StatusFound, resp.Code)

	// Submitting the identical form again must change nothing.
	resp = app.postForm(fmt.Sprintf("/edit/%d", before.ID), edit)
	require.Equal(t, http.StatusFound, resp.Code)

	var after models.Post
	require.NoError(t, app.db.First(&after, before.ID).Error)
	assert.Equal(t, "Updated", after.Title)
	assert.Equal(t, "https://x.com/b.png", after.ImgURL)
	assert.Equal(t, "<p>two</p>", after.Content)
	assert.Equal(t, before.UserID, after.UserID, "author must stay untouched")
	assert.WithinDuration(t, before.CreatedAt, after.CreatedAt, time.Second, "timestamp must stay untouched")
}

func TestEditUnknownPostIs404(t *testing.T) {
	app := newTestApp(t)
	app.register("root", "r@x.com", "password1")

	resp := app.get("/edit/999")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeletePostRemovesComments(t *testing.T) {
	app := newTestApp(t)
	app.register("root", "r@x.com", "password1")
	app.addPost("Doomed", "https://x.com/a.png", "<p>bye</p>")

	var post models.Post
	require.NoError(t, app.db.First(&post).Error)
	app.postForm(fmt.Sprintf("/posts/%d", post.ID), url.Values{"content": {"<p>rip</p>"}})
	require.Equal(t, int64(1), app.commentCount())

	resp := app.get(fmt.Sprintf("/delete/%d", post.ID))
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, int64(0), app.postCount())
	assert.Equal(t, int64(0), app.commentCount(), "no dangling comment rows may survive")

	// A second delete of the same id finds nothing.
	resp = app.get(fmt.Sprintf("/delete/%d", post.ID))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestViewUnknownPostIs404(t *testing.T) {
	app := newTestApp(t)
	resp := app.get("/posts/999")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddComment(t *testing.T) {
	app := newTestApp(t)
	app.register("root", "r@x.com", "password1")
	app.addPost("Post", "https://x.com/a.png", "<p>body</p>")
	app.logout()
	app.register("alice", "a@x.com", "password1")

	var post models.Post
	require.NoError(t, app.db.First(&post).Error)

	resp := app.postForm(fmt.Sprintf("/posts/%d", post.ID), url.Values{"content": {"<p>nice</p>"}})
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header().Get("Location"))

	var comment models.Comment
	require.NoError(t, app.db.Preload("User").First(&comment).Error)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "alice", comment.User.Username)

	detail := app.get(fmt.Sprintf("/posts/%d", post.ID))
	assert.Contains(t, detail.Body.String(), "nice")
}

func TestAnonymousCommentIsRejected(t *testing.T) {
	app := newTestApp(t)
	app.register("root", "r@x.com", "password1")
	app.addPost("Post", "https://x.com/a.png", "<p>body</p>")
	app.logout()

	var post models.Post
	require.NoError(t, app.db.First(&post).Error)

	resp := app.postForm(fmt.Sprintf("/posts/%d", post.ID), url.Values{"content": {"<p>sneaky</p>"}})
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
	assert.Equal(t, int64(0), app.commentCount())
}

func TestEmptyCommentRerendersDetailPage(t *testing.T) {
	app := newTestApp(t)
	app.register("root", "r@x.com", "password1")
	app.addPost("Post", "https://x.com/a.png", "<p>body</p>")

	var post models.Post
	require.NoError(t, app.db.First(&post).Error)

	resp := app.postForm(fmt.Sprintf("/posts/%d", post.ID), url.Values{"content": {"  "}})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "You have to enter a comment")
	assert.Equal(t, int64(0), app.commentCount())
}

func TestStaticPages(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/about", "/contact"} {
		resp := app.get(path)
		assert.Equal(t, http.StatusOK, resp.Code, "path %s", path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.get("/")

	resp := app.get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "http_request_duration_seconds")
}

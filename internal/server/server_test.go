package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"schoolhub/internal/models"
	"schoolhub/internal/repository"
	"schoolhub/internal/service"
	"schoolhub/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// newTestApp wires a Server over an isolated in-memory database and returns
// the Fiber app with all API routes registered. The Prometheus middleware is
// left out so repeated registrations across tests cannot collide.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db := testutil.NewTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	s := &Server{
		db:             db,
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		likeRepo:       likeRepo,
		userService:    service.NewUserService(userRepo),
		postService:    service.NewPostService(postRepo, userRepo),
		commentService: service.NewCommentService(commentRepo, postRepo, userRepo),
		likeService:    service.NewLikeService(likeRepo, postRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return app
}

// doJSON sends a request with an optional JSON body and decodes the JSON
// response into a generic map (nil body yields nil).
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func doJSONRaw(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func createUserViaAPI(t *testing.T, app *fiber.App, username, role string) uint {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"username": username,
		"email":    username + "@example.edu",
		"name":     "Test " + username,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, status)
	return uint(body["id"].(float64))
}

func createPostViaAPI(t *testing.T, app *fiber.App, authorID uint, postType string) uint {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title":     "a post",
		"content":   "content",
		"type":      postType,
		"author_id": authorID,
	})
	require.Equal(t, http.StatusCreated, status)
	return uint(body["id"].(float64))
}

func getPost(t *testing.T, app *fiber.App, id uint) map[string]any {
	t.Helper()
	status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil)
	require.Equal(t, http.StatusOK, status)
	return body
}

func TestUserLifecycle(t *testing.T) {
	app := newTestApp(t)

	id := createUserViaAPI(t, app, "alice", "")

	status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, models.RoleStudent, body["role"])
	assert.Equal(t, true, body["is_active"])

	// Reads of a missing id are not errors; the body is JSON null.
	status, raw := doJSONRaw(t, app, http.MethodGet, "/api/users/99999", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(bytes.TrimSpace(raw)))

	// Duplicate username conflicts.
	status, body = doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"username": "alice", "email": "other@example.edu",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.CodeUniqueViolation, body["code"])

	// Partial update leaves other fields untouched.
	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d", id), map[string]any{
		"class_name": "10B",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "10B", body["class_name"])
	assert.Equal(t, "alice", body["username"])

	status, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	// Mutating a missing user is NotFound.
	status, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, body["code"])
}

func TestAnnouncementPermission(t *testing.T) {
	app := newTestApp(t)

	studentID := createUserViaAPI(t, app, "student1", "")
	adminID := createUserViaAPI(t, app, "teacher1", models.RoleAdmin)

	status, body := doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title": "exam schedule", "type": models.PostTypeAnnouncement, "author_id": studentID,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, models.CodePermissionDenied, body["code"])

	status, body = doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title": "exam schedule", "type": models.PostTypeAnnouncement, "author_id": adminID,
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.PostTypeAnnouncement, body["type"])
}

func TestPostValidation(t *testing.T) {
	app := newTestApp(t)
	authorID := createUserViaAPI(t, app, "writer", "")

	t.Run("missing title", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{
			"content": "no title", "author_id": authorID,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, models.CodeValidation, body["code"])
	})

	t.Run("unknown type", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{
			"title": "t", "type": "poll", "author_id": authorID,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, models.CodeValidation, body["code"])
	})

	t.Run("unknown author", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{
			"title": "t", "author_id": 12345,
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, models.CodeNotFound, body["code"])
	})
}

func TestCommentCounting(t *testing.T) {
	app := newTestApp(t)

	authorID := createUserViaAPI(t, app, "poster", "")
	commenterID := createUserViaAPI(t, app, "commenter", "")
	postID := createPostViaAPI(t, app, authorID, models.PostTypeText)

	assert.EqualValues(t, 0, getPost(t, app, postID)["comments_count"])

	commentsPath := fmt.Sprintf("/api/posts/%d/comments", postID)
	status, first := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
		"content": "first!", "author_id": commenterID,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 1, getPost(t, app, postID)["comments_count"])

	status, _ = doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
		"content": "second", "author_id": authorID,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 2, getPost(t, app, postID)["comments_count"])

	firstID := uint(first["id"].(float64))
	status, body := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/comments/%d", firstID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, getPost(t, app, postID)["comments_count"])

	// Deleting the same comment twice is NotFound.
	status, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/comments/%d", firstID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, body["code"])

	// Commenting on a missing post is NotFound.
	status, body = doJSON(t, app, http.MethodPost, "/api/posts/99999/comments", map[string]any{
		"content": "into the void", "author_id": commenterID,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, body["code"])
}

func TestLikeFlow(t *testing.T) {
	app := newTestApp(t)

	authorID := createUserViaAPI(t, app, "liked", "")
	likerID := createUserViaAPI(t, app, "liker", "")
	postID := createPostViaAPI(t, app, authorID, models.PostTypeText)

	likesPath := fmt.Sprintf("/api/posts/%d/likes", postID)

	status, _ := doJSON(t, app, http.MethodPost, likesPath, map[string]any{"user_id": likerID})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 1, getPost(t, app, postID)["likes_count"])

	// Same user again conflicts and the counter stays put.
	status, body := doJSON(t, app, http.MethodPost, likesPath, map[string]any{"user_id": likerID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.CodeConflict, body["code"])
	assert.EqualValues(t, 1, getPost(t, app, postID)["likes_count"])

	unlikePath := fmt.Sprintf("/api/posts/%d/likes/%d", postID, likerID)
	status, body = doJSON(t, app, http.MethodDelete, unlikePath, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 0, getPost(t, app, postID)["likes_count"])

	// Unliking again is still a success and does not move the counter.
	status, _ = doJSON(t, app, http.MethodDelete, unlikePath, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, getPost(t, app, postID)["likes_count"])
}

func TestPostDeleteRemovesComments(t *testing.T) {
	app := newTestApp(t)

	authorID := createUserViaAPI(t, app, "deleter", "")
	postID := createPostViaAPI(t, app, authorID, models.PostTypeText)

	commentsPath := fmt.Sprintf("/api/posts/%d/comments", postID)
	status, comment := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
		"content": "soon gone", "author_id": authorID,
	})
	require.Equal(t, http.StatusCreated, status)
	commentID := uint(comment["id"].(float64))

	status, body := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	// The comment went with the post.
	status, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, body["code"])

	// Listing comments of the deleted post yields an empty list.
	status, raw := doJSONRaw(t, app, http.MethodGet, commentsPath, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(bytes.TrimSpace(raw)))
}

func TestUserDeleteAdjustsCounters(t *testing.T) {
	app := newTestApp(t)

	victimID := createUserViaAPI(t, app, "leaver", "")
	survivorID := createUserViaAPI(t, app, "stayer", "")
	survivorPost := createPostViaAPI(t, app, survivorID, models.PostTypeText)
	victimPost := createPostViaAPI(t, app, victimID, models.PostTypeText)

	// The leaver engages with the stayer's post.
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", survivorPost), map[string]any{
		"content": "bye soon", "author_id": victimID,
	})
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/likes", survivorPost), map[string]any{
		"user_id": victimID,
	})
	require.Equal(t, http.StatusCreated, status)

	require.EqualValues(t, 1, getPost(t, app, survivorPost)["comments_count"])
	require.EqualValues(t, 1, getPost(t, app, survivorPost)["likes_count"])

	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", victimID), nil)
	require.Equal(t, http.StatusOK, status)

	// The leaver's own post is gone, the stayer's counters dropped back.
	status, raw := doJSONRaw(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", victimPost), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(bytes.TrimSpace(raw)))

	after := getPost(t, app, survivorPost)
	assert.EqualValues(t, 0, after["comments_count"])
	assert.EqualValues(t, 0, after["likes_count"])
}

func TestFeedOrdering(t *testing.T) {
	app := newTestApp(t)

	adminID := createUserViaAPI(t, app, "headmaster", models.RoleAdmin)
	olderID := createPostViaAPI(t, app, adminID, models.PostTypeText)
	newerID := createPostViaAPI(t, app, adminID, models.PostTypeText)

	pinnedID := createPostViaAPI(t, app, adminID, models.PostTypeAnnouncement)
	status, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", pinnedID), map[string]any{
		"is_pinned": true,
	})
	require.Equal(t, http.StatusOK, status)

	status, raw := doJSONRaw(t, app, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, status)

	var posts []map[string]any
	require.NoError(t, json.Unmarshal(raw, &posts))
	require.Len(t, posts, 3)
	assert.EqualValues(t, pinnedID, posts[0]["id"], "pinned post leads the feed")
	assert.EqualValues(t, newerID, posts[1]["id"])
	assert.EqualValues(t, olderID, posts[2]["id"])
}

func TestGetPostsByAuthor(t *testing.T) {
	app := newTestApp(t)

	authorID := createUserViaAPI(t, app, "prolific", "")
	otherID := createUserViaAPI(t, app, "quiet", "")
	createPostViaAPI(t, app, authorID, models.PostTypeText)
	createPostViaAPI(t, app, authorID, models.PostTypeImage)

	status, raw := doJSONRaw(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/posts", authorID), nil)
	require.Equal(t, http.StatusOK, status)
	var posts []map[string]any
	require.NoError(t, json.Unmarshal(raw, &posts))
	assert.Len(t, posts, 2)

	// A user with no posts, or an unknown user, gets an empty list.
	status, raw = doJSONRaw(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/posts", otherID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(bytes.TrimSpace(raw)))

	status, raw = doJSONRaw(t, app, http.MethodGet, "/api/users/99999/posts", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(bytes.TrimSpace(raw)))
}

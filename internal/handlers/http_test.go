package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"blogd/internal/config"
	"blogd/internal/services"
	"blogd/internal/storage"
)

type fakePostStore struct {
	posts map[string]storage.Post
	order []string
	next  int
	err   error
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[string]storage.Post)}
}

func (f *fakePostStore) List(ctx context.Context) ([]storage.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]storage.Post, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.posts[id])
	}
	return out, nil
}

func (f *fakePostStore) Create(ctx context.Context, name, author string) (*storage.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.next++
	p := storage.Post{ID: fmt.Sprintf("post-%d", f.next), Name: name, Author: author, Views: 0}
	f.posts[p.ID] = p
	f.order = append(f.order, p.ID)
	return &p, nil
}

func (f *fakePostStore) FindByID(ctx context.Context, id string) (*storage.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &p, nil
}

func (f *fakePostStore) Delete(ctx context.Context, id string) (*storage.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	delete(f.posts, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return &p, nil
}

type fakeUserStore struct {
	users    []storage.User
	lastPage int
	lastLim  int
	err      error
}

func (f *fakeUserStore) List(ctx context.Context, page, limit int) ([]storage.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastPage, f.lastLim = page, limit
	skip := limit * page
	if skip >= len(f.users) {
		return nil, nil
	}
	end := skip + limit
	if end > len(f.users) {
		end = len(f.users)
	}
	return f.users[skip:end], nil
}

func (f *fakeUserStore) Create(ctx context.Context, email, password string) (*storage.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return nil, services.ErrDuplicateEmail
		}
	}
	u := storage.User{ID: uint64(len(f.users) + 1), Email: email, Password: "$argon2id$stub"}
	f.users = append(f.users, u)
	return &u, nil
}

func newTestRouter(ps PostStore, us UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := config.Config{Limits: config.LimitConfig{MaxPageSize: 100}}
	New(cfg, ps, us).RegisterRoutes(r)
	return r
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == nil {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRootReturnsFixedText(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	w := doReq(t, r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Server is running successfully", w.Body.String())
}

func TestEchoReturnsBodyVerbatim(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	body := []byte{0x00, 0xff, 'h', 'i', 0x7f, '\n'}
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, body, w.Body.Bytes())
}

func TestListPostsEmpty(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	w := doReq(t, r, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}

func TestCreatePostForcesZeroViews(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	// 请求体夹带 views 也必须被忽略
	w := doReq(t, r, http.MethodPost, "/posts", []byte(`{"name":"hello","author":"alice","views":42}`))
	require.Equal(t, http.StatusOK, w.Code)
	var p Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, "hello", p.Name)
	require.Equal(t, "alice", p.Author)
	require.Equal(t, 0, p.Views)
	require.NotEmpty(t, p.ID)
}

func TestCreateThenFindRoundTrip(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	w := doReq(t, r, http.MethodPost, "/posts", []byte(`{"name":"n1","author":"a1"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var created Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doReq(t, r, http.MethodGet, "/posts/id/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Equal(t, created, found)
}

func TestFindPostMissingReturns404(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	w := doReq(t, r, http.MethodGet, "/posts/id/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"Entity not found"}`, w.Body.String())
}

func TestDeletePostReturnsDeletedRecord(t *testing.T) {
	ps := newFakePostStore()
	r := newTestRouter(ps, &fakeUserStore{})
	w := doReq(t, r, http.MethodPost, "/posts", []byte(`{"name":"bye","author":"bob"}`))
	var created Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doReq(t, r, http.MethodDelete, "/posts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	require.Equal(t, created, deleted)

	w = doReq(t, r, http.MethodGet, "/posts/id/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePostMissingReturns404(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	w := doReq(t, r, http.MethodDelete, "/posts/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"Entity not found"}`, w.Body.String())
}

func TestListPostsStoreFailureReturns500(t *testing.T) {
	ps := newFakePostStore()
	ps.err = errors.New("db gone: dsn=root:123456@tcp(...)")
	r := newTestRouter(ps, &fakeUserStore{})
	w := doReq(t, r, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	// 响应体不得泄露内部错误细节
	require.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestListUsersPaginationOffset(t *testing.T) {
	us := &fakeUserStore{}
	for i := 1; i <= 7; i++ {
		us.users = append(us.users, storage.User{ID: uint64(i), Email: fmt.Sprintf("u%d@example.com", i), Password: "$argon2id$stub"})
	}
	r := newTestRouter(newFakePostStore(), us)

	// page=0 返回前 limit 条
	w := doReq(t, r, http.MethodGet, "/users?page=0&limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []UserDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3)
	require.Equal(t, uint64(1), got[0].ID)

	// page=2, limit=3 跳过恰好 6 条
	w = doReq(t, r, http.MethodGet, "/users?page=2&limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, uint64(7), got[0].ID)
	require.Equal(t, 2, us.lastPage)
	require.Equal(t, 3, us.lastLim)
}

func TestListUsersNeverSerializesPassword(t *testing.T) {
	us := &fakeUserStore{users: []storage.User{{ID: 1, Email: "a@b.c", Password: "$argon2id$very-secret"}}}
	r := newTestRouter(newFakePostStore(), us)
	w := doReq(t, r, http.MethodGet, "/users?page=0&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "password")
	require.NotContains(t, w.Body.String(), "secret")
}

func TestListUsersValidation(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	for _, q := range []string{"", "?page=0", "?limit=5", "?page=-1&limit=5", "?page=0&limit=0", "?page=0&limit=1000", "?page=abc&limit=5"} {
		w := doReq(t, r, http.MethodGet, "/users"+q, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, "query %q", q)
	}
}

func TestCreateUserReturns201Dto(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	w := doReq(t, r, http.MethodPost, "/user", []byte(`{"email":"new@example.com","password":"pl4in"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var dto UserDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	require.Equal(t, "new@example.com", dto.Email)
	require.NotZero(t, dto.ID)
	require.NotContains(t, w.Body.String(), "pl4in")
	require.NotContains(t, strings.ToLower(w.Body.String()), "password")
}

func TestCreateUserDuplicateEmailReturns409(t *testing.T) {
	us := &fakeUserStore{users: []storage.User{{ID: 1, Email: "dup@example.com"}}}
	r := newTestRouter(newFakePostStore(), us)
	w := doReq(t, r, http.MethodPost, "/user", []byte(`{"email":"dup@example.com","password":"x"}`))
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateUserStoreFailureReturnsGeneric500(t *testing.T) {
	us := &fakeUserStore{err: errors.New("Error 1045: Access denied for user 'root'")}
	r := newTestRouter(newFakePostStore(), us)
	w := doReq(t, r, http.MethodPost, "/user", []byte(`{"email":"x@y.z","password":"p"}`))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(newFakePostStore(), &fakeUserStore{})
	w := doReq(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

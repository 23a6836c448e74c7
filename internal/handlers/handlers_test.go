package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/askseniors/backend/internal/auth"
	"github.com/emilythestrangee/askseniors/backend/internal/config"
	"github.com/emilythestrangee/askseniors/backend/internal/metrics"
	"github.com/emilythestrangee/askseniors/backend/internal/middleware"
	"github.com/emilythestrangee/askseniors/backend/internal/models"
	"github.com/emilythestrangee/askseniors/backend/internal/voting"
	"github.com/emilythestrangee/askseniors/backend/internal/voting/votingtest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testIssuer = auth.NewIssuer("handlers-test-secret", time.Hour, nil)

type voteFixture struct {
	router    *gin.Engine
	metrics   *metrics.VoteMetrics
	questions *votingtest.Store
	answers   *votingtest.Store
	comments  *votingtest.Store
}

func newVoteFixture(t *testing.T) *voteFixture {
	t.Helper()
	f := &voteFixture{
		metrics:   metrics.NewVoteMetrics(prometheus.NewRegistry()),
		questions: votingtest.NewStore(),
		answers:   votingtest.NewStore(),
		comments:  votingtest.NewStore(),
	}
	h := NewVoteHandler(
		voting.NewToggler(f.questions, voting.Votes, nil),
		voting.NewToggler(f.answers, voting.Votes, nil),
		voting.NewToggler(f.comments, voting.Likes, nil),
		f.metrics,
		nil,
	)

	f.router = gin.New()
	api := f.router.Group("/api/v1", middleware.OptionalAuth(testIssuer))
	api.POST("/question/:id/vote", h.VoteQuestion)
	api.POST("/answer/:id/vote", h.VoteAnswer)
	api.POST("/comment/:id/like", h.LikeComment)
	return f
}

func bearer(t *testing.T, userID int) string {
	t.Helper()
	token, err := testIssuer.Issue(userID, "user@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router http.Handler, method, path, authHeader, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestVoteQuestion_ToggleSequence(t *testing.T) {
	f := newVoteFixture(t)
	f.questions.AddTarget(1, voting.Counters{})
	user := bearer(t, 7)

	code, body := doJSON(t, f.router, http.MethodPost, "/api/v1/question/1/vote", user, `{"voteType":"upvote"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{
		"success": true, "action": "created", "voteType": "upvote",
		"upvotes": 1.0, "downvotes": 0.0, "totalScore": 1.0,
	}, body)

	code, body = doJSON(t, f.router, http.MethodPost, "/api/v1/question/1/vote", user, `{"voteType":"downvote"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "updated", body["action"])
	assert.Equal(t, "downvote", body["voteType"])
	assert.Equal(t, -1.0, body["totalScore"])

	code, body = doJSON(t, f.router, http.MethodPost, "/api/v1/question/1/vote", user, `{"voteType":"downvote"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "removed", body["action"])
	assert.Nil(t, body["voteType"])
	assert.Equal(t, 0.0, body["totalScore"])

	assert.Equal(t, voting.Counters{}, f.questions.Counters(1))
	for _, action := range []string{"created", "updated", "removed"} {
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Toggles.WithLabelValues("question", action)), action)
	}
}

func TestVoteAnswer_Errors(t *testing.T) {
	f := newVoteFixture(t)
	f.answers.AddTarget(3, voting.Counters{Upvotes: 2, TotalScore: 2})

	tests := []struct {
		name   string
		path   string
		auth   string
		body   string
		status int
		errMsg string
	}{
		{"anonymous", "/api/v1/answer/3/vote", "", `{"voteType":"upvote"}`, http.StatusUnauthorized, "Authentication required"},
		{"anonymous with bad kind", "/api/v1/answer/3/vote", "", `{"voteType":"sideways"}`, http.StatusUnauthorized, "Authentication required"},
		{"bad token", "/api/v1/answer/3/vote", "Bearer nope", `{"voteType":"upvote"}`, http.StatusUnauthorized, "Authentication required"},
		{"invalid kind", "/api/v1/answer/3/vote", bearer(t, 1), `{"voteType":"sideways"}`, http.StatusBadRequest, "Invalid vote type"},
		{"missing body", "/api/v1/answer/3/vote", bearer(t, 1), ``, http.StatusBadRequest, "Invalid vote type"},
		{"unknown answer", "/api/v1/answer/99/vote", bearer(t, 1), `{"voteType":"upvote"}`, http.StatusNotFound, "Answer not found"},
		{"non-numeric id", "/api/v1/answer/abc/vote", bearer(t, 1), `{"voteType":"upvote"}`, http.StatusNotFound, "Answer not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doJSON(t, f.router, http.MethodPost, tt.path, tt.auth, tt.body)
			assert.Equal(t, tt.status, code)
			assert.Equal(t, tt.errMsg, body["error"])
		})
	}

	assert.Equal(t, voting.Counters{Upvotes: 2, TotalScore: 2}, f.answers.Counters(3))
	assert.Zero(t, f.answers.Creates())
}

func TestVoteAnswer_ConcurrentDuplicateReportsStoredState(t *testing.T) {
	f := newVoteFixture(t)
	f.answers.AddTarget(3, voting.Counters{})
	f.answers.SimulateRace(5, 3, voting.Upvote)

	code, body := doJSON(t, f.router, http.MethodPost, "/api/v1/answer/3/vote", bearer(t, 5), `{"voteType":"upvote"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unchanged", body["action"])
	assert.Equal(t, "upvote", body["voteType"])
	assert.Equal(t, 1.0, body["upvotes"])
	assert.Equal(t, 1, f.answers.CountVotes(3, voting.Upvote))
}

func TestLikeComment(t *testing.T) {
	f := newVoteFixture(t)
	f.comments.AddTarget(9, voting.Counters{})
	user := bearer(t, 4)

	code, body := doJSON(t, f.router, http.MethodPost, "/api/v1/comment/9/like", user, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"success": true, "action": "liked", "likes": 1.0, "hasUserLiked": true}, body)

	code, body = doJSON(t, f.router, http.MethodPost, "/api/v1/comment/9/like", user, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"success": true, "action": "unliked", "likes": 0.0, "hasUserLiked": false}, body)
}

func TestLikeComment_AnonymousIsRejectedWithoutMutation(t *testing.T) {
	f := newVoteFixture(t)
	f.comments.AddTarget(9, voting.Counters{Likes: 3})

	code, body := doJSON(t, f.router, http.MethodPost, "/api/v1/comment/9/like", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication required", body["error"])
	assert.Equal(t, voting.Counters{Likes: 3}, f.comments.Counters(9))
	assert.Zero(t, f.comments.Creates())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Toggles.WithLabelValues("comment", "unauthenticated")))
}

type fakeProjector struct {
	pages  []voting.Page
	scopes []int
	n      int
	err    error
}

func (p *fakeProjector) Questions(_ context.Context, page voting.Page) ([]models.QuestionView, error) {
	p.pages = append(p.pages, page)
	if p.err != nil {
		return nil, p.err
	}
	return make([]models.QuestionView, p.n), nil
}

func (p *fakeProjector) Answers(_ context.Context, questionID int, page voting.Page) ([]models.AnswerView, error) {
	p.pages = append(p.pages, page)
	p.scopes = append(p.scopes, questionID)
	if p.err != nil {
		return nil, p.err
	}
	return make([]models.AnswerView, p.n), nil
}

func (p *fakeProjector) Comments(_ context.Context, answerID int, page voting.Page) ([]models.CommentView, error) {
	p.pages = append(p.pages, page)
	p.scopes = append(p.scopes, answerID)
	if p.err != nil {
		return nil, p.err
	}
	return make([]models.CommentView, p.n), nil
}

func newListRouter(p projector) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1", middleware.OptionalAuth(testIssuer))
	api.GET("/question/ques", NewQuestionHandler(nil, p, nil).GetQuestionsWithStatus)
	api.GET("/question/:id/answer", NewAnswerHandler(nil, p, nil).GetAnswers)
	api.GET("/answer/:id/comments", NewCommentHandler(nil, p, nil).GetComments)
	return r
}

func TestListings_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		returned  int
		wantPage  int
		wantLimit int
		wantNext  bool
		listKey   string
	}{
		{"question defaults", "/api/v1/question/ques", 10, 1, 10, true, "questions"},
		{"question explicit", "/api/v1/question/ques?page=3&limit=5", 2, 3, 5, false, "questions"},
		{"invalid values fall back", "/api/v1/question/ques?page=zero&limit=-4", 0, 1, 10, false, "questions"},
		{"limit is capped", "/api/v1/question/ques?limit=500", 100, 1, 100, true, "questions"},
		{"answers default", "/api/v1/question/4/answer", 3, 1, 10, false, "answers"},
		{"comments default", "/api/v1/answer/4/comments", 20, 1, 20, true, "comments"},
		{"comments explicit", "/api/v1/answer/4/comments?page=2&limit=7", 7, 2, 7, true, "comments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProjector{n: tt.returned}
			code, body := doJSON(t, newListRouter(p), http.MethodGet, tt.path, "", "")

			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, float64(tt.wantPage), body["page"])
			assert.Equal(t, float64(tt.wantLimit), body["limit"])
			assert.Equal(t, tt.wantNext, body["hasNextPage"])
			assert.Len(t, body[tt.listKey], tt.returned)

			require.Len(t, p.pages, 1)
			assert.Nil(t, p.pages[0].Viewer)
		})
	}
}

func TestListings_ViewerAndScope(t *testing.T) {
	p := &fakeProjector{}
	r := newListRouter(p)

	code, _ := doJSON(t, r, http.MethodGet, "/api/v1/question/12/answer", bearer(t, 8), "")
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/answer/13/comments", "Bearer garbage", "")
	require.Equal(t, http.StatusOK, code)

	require.Len(t, p.pages, 2)
	require.NotNil(t, p.pages[0].Viewer)
	assert.Equal(t, 8, p.pages[0].Viewer.ID)
	assert.Nil(t, p.pages[1].Viewer)
	assert.Equal(t, []int{12, 13}, p.scopes)
}

func TestListings_StorageFailureIsOpaque(t *testing.T) {
	p := &fakeProjector{err: errors.New("connection reset by peer")}
	code, body := doJSON(t, newListRouter(p), http.MethodGet, "/api/v1/question/ques", "", "")

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, map[string]any{"error": "Server error"}, body)
}

func TestRoleFieldsError(t *testing.T) {
	tests := []struct {
		name  string
		input models.RegisterRequest
		ok    bool
	}{
		{"student complete", models.RegisterRequest{Role: models.RoleStudent, RegNo: "21BCE1", CurrentYear: "3", BranchOfStudy: "CSE"}, true},
		{"student missing regNo", models.RegisterRequest{Role: models.RoleStudent, CurrentYear: "3", BranchOfStudy: "CSE"}, false},
		{"alumni complete", models.RegisterRequest{Role: models.RoleAlumni, GraduationYear: "2020", BranchOfStudy: "ECE"}, true},
		{"alumni missing year", models.RegisterRequest{Role: models.RoleAlumni, BranchOfStudy: "ECE"}, false},
		{"faculty complete", models.RegisterRequest{Role: models.RoleFaculty, BranchOfStudy: "ME"}, true},
		{"faculty missing branch", models.RegisterRequest{Role: models.RoleFaculty}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, roleFieldsError(tt.input) == "")
		})
	}
}

func TestAuthHandler_BaseURL(t *testing.T) {
	newContext := func(header string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "http://api.example.com/api/v1/auth/register", nil)
		if header != "" {
			c.Request.Header.Set("X-Forwarded-Proto", header)
		}
		return c
	}

	h := NewAuthHandler(nil, &config.Config{}, testIssuer, nil, nil, nil)
	assert.Equal(t, "http://api.example.com", h.baseURL(newContext("")))
	assert.Equal(t, "https://api.example.com", h.baseURL(newContext("https")))

	h = NewAuthHandler(nil, &config.Config{PublicBaseURL: "https://askseniors.example/"}, testIssuer, nil, nil, nil)
	assert.Equal(t, "https://askseniors.example", h.baseURL(newContext("")))
}

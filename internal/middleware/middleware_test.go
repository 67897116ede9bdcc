package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	assert.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	newRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(middleware.AuthMiddlewareWithSecret(func() []byte { return testSecret }))
		r.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"company_id":  c.GetString("company_id"),
				"employee_id": c.GetString("employee_id"),
				"ctx_company": contextutil.GetCompanyID(c.Request.Context()),
			})
		})
		return r
	}

	t.Run("valid token sets claims", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":     "u1",
			"company_id":  "c1",
			"employee_id": "e1",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "c1", body["company_id"])
		assert.Equal(t, "e1", body["employee_id"])
		assert.Equal(t, "c1", body["ctx_company"])
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":     "u1",
			"company_id":  "c1",
			"employee_id": "e1",
			"exp":         time.Now().Add(-time.Hour).Unix(),
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token without company claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u1", "employee_id": "e1"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type fakeRBAC struct {
	allowed bool
	err     error
	got     domain.EnforceRequest
}

func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	f.got = req
	return f.allowed, f.err
}

func TestRBACAuthorize(t *testing.T) {
	run := func(svc *fakeRBAC, withAuth bool) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/payrolls", func(c *gin.Context) {
			if withAuth {
				c.Set("employee_id", "e1")
				c.Set("company_id", "c1")
			}
			c.Next()
		}, middleware.RBACAuthorize(svc, "payroll", "read"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payrolls", nil))
		return w
	}

	t.Run("allowed", func(t *testing.T) {
		svc := &fakeRBAC{allowed: true}
		w := run(svc, true)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, domain.EnforceRequest{EmployeeID: "e1", CompanyID: "c1", Resource: "payroll", Action: "read"}, svc.got)
	})

	t.Run("forbidden", func(t *testing.T) {
		w := run(&fakeRBAC{allowed: false}, true)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("enforcer error", func(t *testing.T) {
		w := run(&fakeRBAC{err: errors.New("policy load failed")}, true)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("missing auth context", func(t *testing.T) {
		w := run(&fakeRBAC{allowed: true}, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	const cacheKey = "idemp:/things:u1:key-1"

	newRouter := func(t *testing.T, handlerCalls *int) (*gin.Engine, redismock.ClientMock) {
		rdb, mock := redismock.NewClientMock()
		r := gin.New()
		r.POST("/things", func(c *gin.Context) {
			c.Set("user_id_validated", "u1")
			c.Next()
		}, middleware.Idempotency(rdb), func(c *gin.Context) {
			*handlerCalls++
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})
		return r, mock
	}

	t.Run("first request acquires lock", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(t, &calls)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("completed request is replayed", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(t, &calls)
		mock.ExpectGet(cacheKey).SetVal(`{"id":"p1"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, calls)
		var env apiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.JSONEq(t, `{"id":"p1"}`, string(env.Data))
	})

	t.Run("in flight duplicate is rejected", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(t, &calls)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("no header skips redis", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(t, &calls)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateLimitByUser(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Next()
	}, middleware.RateLimitByUser(rate.Limit(1), 1), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "rid-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "rid-1", w.Body.String())
	assert.Equal(t, "rid-1", w.Header().Get(middleware.RequestIDHeader))
}

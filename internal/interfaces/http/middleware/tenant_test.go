package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/infrastructure/persistence/redis"
	"casino-platform-api/internal/tenancy"
)

// fakeDirectory 可编程的租户目录
type fakeDirectory struct {
	byCode map[string]*entity.Domain
	byHost map[string]*entity.Domain
}

func (d *fakeDirectory) GetByCode(ctx context.Context, code string) (*entity.Domain, error) {
	return d.byCode[code], nil
}

func (d *fakeDirectory) GetByHostname(ctx context.Context, host string) (*entity.Domain, error) {
	return d.byHost[host], nil
}

func newTestRouter(t *testing.T, domains ...*entity.Domain) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := &fakeDirectory{
		byCode: make(map[string]*entity.Domain),
		byHost: make(map[string]*entity.Domain),
	}
	for _, d := range domains {
		dir.byCode[d.TenantCode] = d
		for _, h := range d.Hostnames {
			dir.byHost[h] = d
		}
	}

	mr := miniredis.RunT(t)
	cache := redis.NewTenantCache(redis.NewClientWithRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()})))
	resolver := tenancy.NewResolver(dir, cache, tenancy.ResolverConfig{})

	r := gin.New()
	r.Use(Tenant(resolver, TenantConfig{}))
	r.GET("/whoami", func(c *gin.Context) {
		rc, err := tenancy.FromContext(c.Request.Context())
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{
			"domain_id":   rc.DomainID(),
			"tenant_code": rc.TenantCode(),
		})
	})
	return r
}

func testDomain(id int64, code string, status entity.DomainStatus, hosts ...string) *entity.Domain {
	d := entity.NewDomain(code, code, hosts)
	d.DomainID = id
	d.Status = status
	return d
}

func TestTenantMiddlewareByHeader(t *testing.T) {
	r := newTestRouter(t, testDomain(7, "lucky-ace", entity.DomainStatusActive))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(TenantCodeHeader, "lucky-ace")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lucky-ace", w.Header().Get(TenantCodeHeader))
	assert.Equal(t, "active", w.Header().Get(TenantStatusHeader))
	assert.Contains(t, w.Body.String(), `"domain_id":7`)
}

func TestTenantMiddlewareByHost(t *testing.T) {
	r := newTestRouter(t, testDomain(8, "royal-flush", entity.DomainStatusActive, "royal.example.com"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Host = "Royal.Example.com:8443"
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tenant_code":"royal-flush"`)
}

func TestTenantMiddlewareUnknownTenant(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(TenantCodeHeader, "ghost")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTenantMiddlewareInactiveTenant(t *testing.T) {
	r := newTestRouter(t, testDomain(9, "cold-deck", entity.DomainStatusInactive))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(TenantCodeHeader, "cold-deck")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenantMiddlewareMaintenanceTenant(t *testing.T) {
	r := newTestRouter(t, testDomain(10, "night-shift", entity.DomainStatusMaintenance))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(TenantCodeHeader, "night-shift")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "maintenance", w.Header().Get(TenantStatusHeader))
}

func TestRequireCapability(t *testing.T) {
	gin.SetMode(gin.TestMode)

	domain := testDomain(7, "lucky-ace", entity.DomainStatusActive)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		rc := tenancy.NewRequestContext(domain, "", "tester", entity.NewCapabilitySet([]string{"player:read"}))
		c.Request = c.Request.WithContext(tenancy.WithRequestContext(c.Request.Context(), rc))
	})
	r.GET("/read", RequireCapability(entity.CapabilityPlayerRead), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/admin", RequireCapability(entity.CapabilityTenantAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/read", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

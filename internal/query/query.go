// Package query wraps the API client with a per-person read cache.
//
// Each resource kind has its own staleness window. A fresh entry is served
// from memory; a stale or missing one is fetched, with concurrent fetches of
// the same key collapsed into one request. Failed fetches are never cached.
// Mutations drop the entries they make stale; nothing else invalidates.
package query

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/kartel/whygo/internal/api"
	"github.com/kartel/whygo/internal/config"
	"github.com/kartel/whygo/internal/session"
	"github.com/kartel/whygo/internal/whygo"
)

// Kind names a cached resource.
type Kind string

const (
	KindMyGoals          Kind = "my_goals"
	KindPendingApprovals Kind = "pending_approvals"
	KindContext          Kind = "onboarding_context"
	KindCompanyGoals     Kind = "company_goals"
	KindDepartmentGoals  Kind = "department_goals"
	KindTeam             Kind = "team"
)

// Kinds lists every cached resource kind.
func Kinds() []Kind {
	return []Kind{KindMyGoals, KindPendingApprovals, KindContext, KindCompanyGoals, KindDepartmentGoals, KindTeam}
}

// TTLs maps each kind to its staleness window. A zero TTL disables caching
// for that kind.
type TTLs map[Kind]time.Duration

// TTLsFromConfig reads the cache section of the configuration.
func TTLsFromConfig(c config.CacheConfig) TTLs {
	return TTLs{
		KindMyGoals:          c.MyGoalsTTL,
		KindPendingApprovals: c.PendingApprovalsTTL,
		KindContext:          c.ContextTTL,
		KindCompanyGoals:     c.CompanyGoalsTTL,
		KindDepartmentGoals:  c.DepartmentGoalsTTL,
		KindTeam:             c.TeamTTL,
	}
}

// Source is the API surface the cache wraps.
type Source interface {
	MyGoals(ctx context.Context) ([]whygo.IndividualGoal, error)
	PendingApprovals(ctx context.Context) ([]whygo.IndividualGoal, error)
	OnboardingContext(ctx context.Context) (*whygo.OnboardingContext, error)
	CompanyGoals(ctx context.Context) ([]whygo.CompanyGoal, error)
	MyDepartmentGoals(ctx context.Context) ([]whygo.DepartmentGoal, error)
	MyTeam(ctx context.Context) ([]whygo.Person, error)
	CreateGoal(ctx context.Context, req api.CreateGoalRequest) (*whygo.IndividualGoal, error)
	ApproveGoal(ctx context.Context, goalID string) error
	StartOnboarding(ctx context.Context) error
	CompleteOnboarding(ctx context.Context) error
}

var _ Source = (*api.Client)(nil)

const defaultMaxEntries = 128

type entry struct {
	value    any
	storedAt time.Time
}

// Client is a caching Source. Values it returns are shared with the cache
// and must not be modified.
type Client struct {
	src   Source
	ttls  TTLs
	cache *lru.Cache[string, entry]
	group singleflight.Group
	now   func() time.Time
}

// New wraps src with a cache using ttls.
func New(src Source, ttls TTLs) *Client {
	cache, err := lru.New[string, entry](defaultMaxEntries)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Client{src: src, ttls: ttls, cache: cache, now: time.Now}
}

func cacheKey(kind Kind, personID string) string {
	return string(kind) + ":" + personID
}

// fetch returns the cached value for kind or loads it. Requests without a
// session bypass the cache so the API reports the missing session.
func fetch[T any](ctx context.Context, c *Client, kind Kind, load func(context.Context) (T, error)) (T, error) {
	sess, ok := session.FromContext(ctx)
	ttl := c.ttls[kind]
	if !ok || ttl <= 0 {
		return load(ctx)
	}

	key := cacheKey(kind, sess.PersonID)
	if e, ok := c.cache.Get(key); ok {
		if c.now().Sub(e.storedAt) < ttl {
			return e.value.(T), nil
		}
		c.cache.Remove(key)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, entry{value: val, storedAt: c.now()})
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// MyGoals returns the person's goals.
func (c *Client) MyGoals(ctx context.Context) ([]whygo.IndividualGoal, error) {
	return fetch(ctx, c, KindMyGoals, c.src.MyGoals)
}

// PendingApprovals returns goals awaiting the person's approval.
func (c *Client) PendingApprovals(ctx context.Context) ([]whygo.IndividualGoal, error) {
	return fetch(ctx, c, KindPendingApprovals, c.src.PendingApprovals)
}

// OnboardingContext returns the onboarding snapshot.
func (c *Client) OnboardingContext(ctx context.Context) (*whygo.OnboardingContext, error) {
	return fetch(ctx, c, KindContext, c.src.OnboardingContext)
}

// CompanyGoals returns every company goal.
func (c *Client) CompanyGoals(ctx context.Context) ([]whygo.CompanyGoal, error) {
	return fetch(ctx, c, KindCompanyGoals, c.src.CompanyGoals)
}

// MyDepartmentGoals returns the person's department goals.
func (c *Client) MyDepartmentGoals(ctx context.Context) ([]whygo.DepartmentGoal, error) {
	return fetch(ctx, c, KindDepartmentGoals, c.src.MyDepartmentGoals)
}

// MyTeam returns the person's direct reports.
func (c *Client) MyTeam(ctx context.Context) ([]whygo.Person, error) {
	return fetch(ctx, c, KindTeam, c.src.MyTeam)
}

// CreateGoal creates a goal and drops the person's cached goals and
// onboarding context.
func (c *Client) CreateGoal(ctx context.Context, req api.CreateGoalRequest) (*whygo.IndividualGoal, error) {
	g, err := c.src.CreateGoal(ctx, req)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, KindMyGoals, KindContext)
	return g, nil
}

// ApproveGoal approves a goal and drops the approver's cached pending list
// and team view.
func (c *Client) ApproveGoal(ctx context.Context, goalID string) error {
	if err := c.src.ApproveGoal(ctx, goalID); err != nil {
		return err
	}
	c.Invalidate(ctx, KindPendingApprovals, KindTeam, KindContext)
	return nil
}

// StartOnboarding marks onboarding as started.
func (c *Client) StartOnboarding(ctx context.Context) error {
	if err := c.src.StartOnboarding(ctx); err != nil {
		return err
	}
	c.Invalidate(ctx, KindContext)
	return nil
}

// CompleteOnboarding marks onboarding as completed.
func (c *Client) CompleteOnboarding(ctx context.Context) error {
	if err := c.src.CompleteOnboarding(ctx); err != nil {
		return err
	}
	c.Invalidate(ctx, KindContext)
	return nil
}

// Invalidate drops the given kinds for the person in ctx. With no kinds it
// drops every kind.
func (c *Client) Invalidate(ctx context.Context, kinds ...Kind) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return
	}
	if len(kinds) == 0 {
		kinds = Kinds()
	}
	for _, k := range kinds {
		c.cache.Remove(cacheKey(k, sess.PersonID))
	}
}

// Purge drops every cached entry for every person. It runs on logout.
func (c *Client) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached entries, fresh or stale.
func (c *Client) Len() int {
	return c.cache.Len()
}

package page

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/notify"
	"github.com/dukerupert/shoplist/internal/remote"
)

// call is one request made by a controller. The test answers it on reply, so
// the order of remote calls is asserted step by step.
type call struct {
	method   string
	resource string
	id       string
	query    remote.Query
	payload  any
	reply    chan result
}

type result struct {
	data any
	err  error
}

func (c *call) respond(data any, err error) {
	c.reply <- result{data: data, err: err}
}

type fakeBackend struct {
	t     *testing.T
	calls chan *call
}

func newFakeBackend(t *testing.T) *fakeBackend {
	return &fakeBackend{t: t, calls: make(chan *call)}
}

func (f *fakeBackend) send(c *call) result {
	c.reply = make(chan result, 1)
	f.calls <- c
	return <-c.reply
}

// expect waits for the next call and checks its method and resource.
func (f *fakeBackend) expect(method, resource string) *call {
	f.t.Helper()
	select {
	case c := <-f.calls:
		if c.method != method || c.resource != resource {
			f.t.Fatalf("got call %s %s, want %s %s", c.method, c.resource, method, resource)
		}
		return c
	case <-time.After(2 * time.Second):
		f.t.Fatalf("timed out waiting for %s %s", method, resource)
		return nil
	}
}

// expectAll collects n concurrent calls keyed by "method resource".
func (f *fakeBackend) expectAll(n int) map[string]*call {
	f.t.Helper()
	out := make(map[string]*call, n)
	for range n {
		select {
		case c := <-f.calls:
			out[c.method+" "+c.resource] = c
		case <-time.After(2 * time.Second):
			f.t.Fatalf("timed out after %d of %d calls", len(out), n)
		}
	}
	return out
}

func (f *fakeBackend) assertDone() {
	f.t.Helper()
	select {
	case c := <-f.calls:
		f.t.Errorf("unexpected call %s %s", c.method, c.resource)
	default:
	}
}

func (f *fakeBackend) backend() Backend {
	return Backend{
		Categories:     &fakeStore[model.Category]{f, remote.ResourceCategory},
		Items:          &fakeStore[model.Item]{f, remote.ResourceItem},
		ItemCategories: &fakeStore[model.ItemCategory]{f, remote.ResourceItemCategory},
		Lists:          &fakeStore[model.ShoppingList]{f, remote.ResourceShoppingList},
		ListItems:      &fakeStore[model.ShoppingListItem]{f, remote.ResourceListItem},
		ListRows:       &fakeStore[model.ListRow]{f, remote.ResourceListRows},
		Todos:          &fakeStore[model.TodoItem]{f, remote.ResourceTodo},
	}
}

type fakeStore[T any] struct {
	f        *fakeBackend
	resource string
}

func (s *fakeStore[T]) List(ctx context.Context, q remote.Query) ([]T, error) {
	r := s.f.send(&call{method: "list", resource: s.resource, query: q})
	data, _ := r.data.([]T)
	return data, r.err
}

func (s *fakeStore[T]) Get(ctx context.Context, id string) (T, error) {
	r := s.f.send(&call{method: "get", resource: s.resource, id: id})
	data, _ := r.data.(T)
	return data, r.err
}

func (s *fakeStore[T]) Create(ctx context.Context, payloads ...T) ([]string, error) {
	r := s.f.send(&call{method: "create", resource: s.resource, payload: payloads})
	ids, _ := r.data.([]string)
	return ids, r.err
}

func (s *fakeStore[T]) Update(ctx context.Context, id string, payload T) error {
	return s.f.send(&call{method: "update", resource: s.resource, id: id, payload: payload}).err
}

func (s *fakeStore[T]) Patch(ctx context.Context, id string, partial any) error {
	return s.f.send(&call{method: "patch", resource: s.resource, id: id, payload: partial}).err
}

func (s *fakeStore[T]) Remove(ctx context.Context, id string) error {
	return s.f.send(&call{method: "remove", resource: s.resource, id: id}).err
}

func testDeps(f *fakeBackend) (Deps, *notify.Channel) {
	ch := notify.New(time.Minute)
	return Deps{
		Backend: f.backend(),
		Notify:  ch,
		Logger:  slog.New(slog.DiscardHandler),
	}, ch
}

type outcome[T any] struct {
	val T
	err error
}

// run executes fn on its own goroutine so the test goroutine can script the
// backend.
func run[T any](fn func() (T, error)) <-chan outcome[T] {
	done := make(chan outcome[T], 1)
	go func() {
		v, err := fn()
		done <- outcome[T]{v, err}
	}()
	return done
}

func runErr(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func rejected(resource string, op remote.Op, status int) error {
	return &remote.Error{Resource: resource, Op: op, Kind: remote.ServerRejection, Status: status}
}

func message(t *testing.T, ch *notify.Channel) notify.Message {
	t.Helper()
	msg, ok := ch.Current()
	if !ok {
		t.Fatal("no notification")
	}
	return msg
}

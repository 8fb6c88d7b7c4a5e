// Package customertest holds the behaviour every customer Repository adapter
// must share, runnable against any implementation.
package customertest

import (
	"context"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-customers/internal/domain"
	custrepo "retail-customers/internal/repository/customer"
)

// Factory returns an empty repository for a single subtest.
type Factory func(t *testing.T) custrepo.Repository

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

// NewCustomer returns a well-formed customer without identity.
func NewCustomer(name, dni string, age int) domain.Customer {
	return domain.Customer{
		Name:  name,
		Email: name + "@example.com",
		DNI:   dni,
		Age:   intPtr(age),
	}
}

// RunContract exercises the Repository contract against repos built by newRepo.
func RunContract(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("save assigns identity", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		in := NewCustomer("john", "12345678A", 30)
		in.ID = int64Ptr(4242)

		first, err := repo.Save(ctx, in)
		require.NoError(t, err)
		require.NotNil(t, first.ID)
		second, err := repo.Save(ctx, NewCustomer("jane", "87654321B", 25))
		require.NoError(t, err)
		require.NotNil(t, second.ID)

		assert.NotEqual(t, *first.ID, *second.ID)
		assert.Equal(t, "john", first.Name)
		assert.Equal(t, "john@example.com", first.Email)
		assert.Equal(t, "12345678A", first.DNI)
		assert.Equal(t, 30, *first.Age)
	})

	t.Run("find by id round trip", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		in := NewCustomer("john", "12345678A", 30)
		saved, err := repo.Save(ctx, in)
		require.NoError(t, err)

		found, ok, err := repo.FindByID(ctx, *saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, *saved, *found)

		in.ID = saved.ID
		assert.Equal(t, in, *found)
	})

	t.Run("find by id absent", func(t *testing.T) {
		repo := newRepo(t)

		found, ok, err := repo.FindByID(context.Background(), 999)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, found)
	})

	t.Run("null age survives storage", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		saved, err := repo.Save(ctx, domain.Customer{Name: "raw", DNI: "12345678A"})
		require.NoError(t, err)
		found, ok, err := repo.FindByID(ctx, *saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Nil(t, found.Age)
	})

	t.Run("ages beyond 32 bits survive storage", func(t *testing.T) {
		if strconv.IntSize < 64 {
			t.Skip("int is 32 bits on this platform")
		}
		ctx := context.Background()
		repo := newRepo(t)

		age := math.MaxInt32
		age++
		saved, err := repo.Save(ctx, NewCustomer("old", "12345678A", age))
		require.NoError(t, err)
		found, ok, err := repo.FindByID(ctx, *saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, age, *found.Age)

		found.Age = intPtr(math.MaxInt)
		updated, ok, err := repo.Update(ctx, *found)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, math.MaxInt, *updated.Age)
	})

	t.Run("find all empty", func(t *testing.T) {
		all, err := newRepo(t).FindAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("find all ordered by id", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		for _, c := range []domain.Customer{
			NewCustomer("a", "11111111A", 20),
			NewCustomer("b", "22222222B", 21),
			NewCustomer("c", "33333333C", 22),
		} {
			_, err := repo.Save(ctx, c)
			require.NoError(t, err)
		}

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i := 1; i < len(all); i++ {
			assert.Less(t, *all[i-1].ID, *all[i].ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].Name, all[1].Name, all[2].Name})
	})

	t.Run("delete by id", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		saved, err := repo.Save(ctx, NewCustomer("john", "12345678A", 30))
		require.NoError(t, err)

		deleted, err := repo.DeleteByID(ctx, *saved.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteByID(ctx, *saved.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, ok, err := repo.FindByID(ctx, *saved.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete absent does not fail", func(t *testing.T) {
		deleted, err := newRepo(t).DeleteByID(context.Background(), 999)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("update replaces record", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		saved, err := repo.Save(ctx, NewCustomer("john", "12345678A", 30))
		require.NoError(t, err)

		changed := NewCustomer("john updated", "87654321Z", 35)
		changed.ID = saved.ID
		updated, ok, err := repo.Update(ctx, changed)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, changed, *updated)

		found, ok, err := repo.FindByID(ctx, *saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, changed, *found)
	})

	t.Run("update absent never inserts", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		ghost := NewCustomer("ghost", "12345678A", 30)
		ghost.ID = int64Ptr(999)
		updated, ok, err := repo.Update(ctx, ghost)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, updated)

		_, ok, err = repo.Update(ctx, NewCustomer("no id", "12345678A", 30))
		require.NoError(t, err)
		assert.False(t, ok)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("update after delete does not resurrect", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		saved, err := repo.Save(ctx, NewCustomer("john", "12345678A", 30))
		require.NoError(t, err)
		_, err = repo.DeleteByID(ctx, *saved.ID)
		require.NoError(t, err)

		_, ok, err := repo.Update(ctx, *saved)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = repo.FindByID(ctx, *saved.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("concurrent deletes remove once", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		saved, err := repo.Save(ctx, NewCustomer("john", "12345678A", 30))
		require.NoError(t, err)

		const workers = 8
		var (
			wg      sync.WaitGroup
			removed atomic.Int32
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.DeleteByID(ctx, *saved.ID)
				if err == nil && ok {
					removed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), removed.Load())
	})
}

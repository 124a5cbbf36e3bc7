package mealdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pantrify/internal/infrastructure/cache"
	"pantrify/internal/infrastructure/config"
	"pantrify/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pancakeResponse = `{"meals":[{
	"idMeal":"52854",
	"strMeal":"Pancakes",
	"strInstructions":"Put the flour, eggs, milk.\r\n\r\n  Whisk to a smooth batter.  \r\nCook.",
	"strTags":"Breakfast, Desert,Sweet,",
	"strSource":"",
	"strYoutube":"https://www.youtube.com/watch?v=LWuuCndtJr0",
	"strIngredient1":"Flour",
	"strIngredient2":" Eggs ",
	"strIngredient3":"",
	"strIngredient4":null,
	"strIngredient5":"Milk",
	"strIngredient20":"Sunflower Oil"
}]}`

func newTestClient(url string, c cache.Cache) *Client {
	return NewClient(config.MealDBConfig{BaseURL: url, Timeout: 2 * time.Second}, c, time.Minute)
}

func TestSearchParsesMeals(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.php", r.URL.Path)
		gotQuery = r.URL.Query().Get("s")
		_, _ = w.Write([]byte(pancakeResponse))
	}))
	defer srv.Close()

	recipes, err := newTestClient(srv.URL, nil).Search(context.Background(), "  pancakes ")
	require.NoError(t, err)
	assert.Equal(t, "pancakes", gotQuery)
	require.Len(t, recipes, 1)

	r := recipes[0]
	assert.Equal(t, "52854", r.ID)
	assert.Equal(t, "Pancakes", r.Title)
	assert.Equal(t, []string{"Flour", "Eggs", "Milk", "Sunflower Oil"}, r.Ingredients)
	assert.Equal(t, []string{"Put the flour, eggs, milk.", "Whisk to a smooth batter.", "Cook."}, r.Instructions)
	assert.Equal(t, []string{"Breakfast", "Desert", "Sweet"}, r.Tags)
	assert.Nil(t, r.SourceURL)
	require.NotNil(t, r.VideoURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=LWuuCndtJr0", *r.VideoURL)
}

func TestSearchEmptyQueryUsesDefault(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("s")
		_, _ = w.Write([]byte(`{"meals":[]}`))
	}))
	defer srv.Close()

	recipes, err := newTestClient(srv.URL, nil).Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "a", gotQuery)
	assert.Empty(t, recipes)
}

func TestSearchNullMeals(t *testing.T) {
	for _, body := range []string{`{"meals":null}`, `{}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		recipes, err := newTestClient(srv.URL, nil).Search(context.Background(), "zzz")
		srv.Close()

		require.NoError(t, err, body)
		assert.NotNil(t, recipes)
		assert.Empty(t, recipes)
	}
}

func TestSearchFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL, nil).Search(context.Background(), "x")
		assert.ErrorIs(t, err, common.ErrSearchUnavailable)
	})

	t.Run("bad json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL, nil).Search(context.Background(), "x")
		assert.ErrorIs(t, err, common.ErrSearchUnavailable)
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := newTestClient("http://127.0.0.1:1", nil).Search(context.Background(), "x")
		assert.ErrorIs(t, err, common.ErrSearchUnavailable)
	})
}

func TestSearchCachesResponses(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(pancakeResponse))
	}))
	defer srv.Close()

	mgr := cache.NewManager(config.Default())
	defer mgr.Close()
	c := newTestClient(srv.URL, mgr)

	first, err := c.Search(context.Background(), "Pancakes")
	require.NoError(t, err)
	second, err := c.Search(context.Background(), "pancakes")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

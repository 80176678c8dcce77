package menu

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetMenuItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/menu/6":
			w.Write([]byte(`{"success":true,"data":{"_id":"6","name":"Butter Chicken","category":"main_course","price":345,"availability":true,"preparationTime":25}}`))
		case "/api/menu/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"Menu item not found"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 0)
	ctx := context.Background()

	item, err := c.GetMenuItem(ctx, "6")
	require.NoError(t, err)
	assert.Equal(t, "Butter Chicken", item.Name)
	assert.Equal(t, 345.0, item.Price)
	assert.True(t, item.Availability)
	assert.Equal(t, 25, item.PreparationTime)

	_, err = c.GetMenuItem(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrMenuItemNotFound))

	_, err = c.GetMenuItem(ctx, "broken")
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 0).GetMenuItem(context.Background(), "1")
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

func TestClient_CancelledRequest(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, 0).GetMenuItem(ctx, "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, domain.ErrUnavailable))
}

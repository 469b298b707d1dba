package cardset

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	return NewHTTPHandler(NewService(mockRepo), zap.NewNop()), mockRepo
}

func TestHTTPHandler_List(t *testing.T) {
	handler, mockRepo := newHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return([]Set{{ID: 1, Name: "Alpha", Code: "LEA", CardCount: 3}}, nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/v1/sets", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data []Set          `json:"data"`
			Meta map[string]any `json:"meta"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, 3, body.Data[0].CardCount)
		assert.Equal(t, float64(1), body.Meta["total"])
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/v1/sets", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	handler, mockRepo := newHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), int64(7)).Return(Set{ID: 7, Name: "Alpha"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/sets/7", nil)
		r.SetPathValue("id", "7")
		handler.Get(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), int64(8)).Return(Set{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/sets/8", nil)
		r.SetPathValue("id", "8")
		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-3", ""} {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/v1/sets/x", nil)
			r.SetPathValue("id", id)
			handler.Get(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
		}
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	handler, mockRepo := newHandler(t)

	t.Run("trims and creates", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), Input{Name: "Alpha", Code: "LEA", SetSymbol: "lea"}).Return(int64(5), nil)
		mockRepo.EXPECT().Get(gomock.Any(), int64(5)).Return(Set{ID: 5, Name: "Alpha", Code: "LEA"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/sets", strings.NewReader(`{"name":" Alpha ","code":"LEA","set_symbol":"lea "}`))
		handler.Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/sets", strings.NewReader(`{"name":"","code":"has space"}`))
		handler.Create(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"code"`)
	})

	t.Run("bad json", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/sets", strings.NewReader(`{"name":`))
		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	handler, mockRepo := newHandler(t)

	t.Run("success", func(t *testing.T) {
		in := Input{Name: "Beta", Code: "LEB"}
		mockRepo.EXPECT().Update(gomock.Any(), int64(2), in).Return(nil)
		mockRepo.EXPECT().Get(gomock.Any(), int64(2)).Return(Set{ID: 2, Name: "Beta", Code: "LEB"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/v1/sets/2", strings.NewReader(`{"name":"Beta","code":"LEB"}`))
		r.SetPathValue("id", "2")
		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(3), gomock.Any()).Return(ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/v1/sets/3", strings.NewReader(`{"name":"Beta","code":"LEB"}`))
		r.SetPathValue("id", "3")
		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	handler, mockRepo := newHandler(t)

	mockRepo.EXPECT().Delete(gomock.Any(), int64(4)).Return(nil)
	mockRepo.EXPECT().Delete(gomock.Any(), int64(5)).Return(ErrNotFound)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/v1/sets/4", nil)
	r.SetPathValue("id", "4")
	handler.Delete(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/v1/sets/5", nil)
	r.SetPathValue("id", "5")
	handler.Delete(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSet_String(t *testing.T) {
	assert.Equal(t, "Alpha (LEA)", Set{Name: "Alpha", Code: "LEA"}.String())
}

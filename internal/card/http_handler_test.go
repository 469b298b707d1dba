package card

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

	"cardconjurer/internal/cardset"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func withID(r *http.Request, id string) *http.Request {
	r.SetPathValue("id", id)
	return r
}

func TestHTTPHandler_Create(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.service, zap.NewNop())

	t.Run("success", func(t *testing.T) {
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(assignID(21))

		w := httptest.NewRecorder()
		body := `{"set_id":1,"front":{"text":{"title":{"text":"Lightning Bolt"},"mana":{"text":"{R}"}}}}`
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code)
		var resp Response
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
		assert.Equal(t, int64(21), resp.ID)
		assert.Equal(t, "/v1/cards/21", resp.ViewURL)
		assert.Equal(t, "Lightning Bolt", resp.View.Name)
		assert.Equal(t, "", resp.FrontImage)
	})

	t.Run("missing front", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(`{"set_id":1}`)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown set", func(t *testing.T) {
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrSetNotFound)

		w := httptest.NewRecorder()
		body := `{"set_id":999,"front":{"text":{}}}`
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(body)))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "SET_NOT_FOUND", decode(t, w).Error.Code)
	})

	t.Run("invalid image", func(t *testing.T) {
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(assignID(22))

		w := httptest.NewRecorder()
		body := `{"set_id":1,"front":{"text":{}},"front_image":"data:image/png;base64,%%%"}`
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_IMAGE", decode(t, w).Error.Code)
	})

	t.Run("non-image upload", func(t *testing.T) {
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(assignID(23))

		w := httptest.NewRecorder()
		body := `{"set_id":1,"front":{"text":{}},"front_art":"data:text/html,%3Cscript%3Ealert(1)%3C/script%3E"}`
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_IMAGE", decode(t, w).Error.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.service, zap.NewNop())

	f.repo.EXPECT().Get(gomock.Any(), int64(3)).Return(Card{ID: 3, SetID: 1, Front: face(map[string]string{"title": "Opt"}), FrontImage: "cards/3/front_image.png"}, nil)
	f.repo.EXPECT().Get(gomock.Any(), int64(4)).Return(Card{}, ErrNotFound)
	f.repo.EXPECT().Get(gomock.Any(), int64(5)).Return(Card{}, context.DeadlineExceeded)

	w := httptest.NewRecorder()
	handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/v1/cards/3", nil), "3"))
	require.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	assert.Equal(t, "/media/cards/3/front_image.png", resp.FrontImage)

	w = httptest.NewRecorder()
	handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/v1/cards/4", nil), "4"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/v1/cards/5", nil), "5"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/v1/cards/x", nil), "x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPHandler_ListBySet(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.service, zap.NewNop())

	f.sets.EXPECT().Get(gomock.Any(), int64(1)).Return(cardset.Set{ID: 1, Name: "Alpha", Code: "LEA"}, nil)
	f.repo.EXPECT().ListBySet(gomock.Any(), int64(1)).Return([]Card{
		named(1, "Zombie Token", "Token Creature - Zombie", "{B}"),
		named(2, "Dark Ritual", "Instant", "{B}"),
	}, nil)

	w := httptest.NewRecorder()
	handler.ListBySet(w, withID(httptest.NewRequest(http.MethodGet, "/v1/sets/1/cards", nil), "1"))

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var cards []Response
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "Dark Ritual", cards[0].View.Name)
	assert.Equal(t, float64(2), env.Meta["total"])

	f.sets.EXPECT().Get(gomock.Any(), int64(2)).Return(cardset.Set{}, cardset.ErrNotFound)
	w = httptest.NewRecorder()
	handler.ListBySet(w, withID(httptest.NewRequest(http.MethodGet, "/v1/sets/2/cards", nil), "2"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPHandler_Replace(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.service, zap.NewNop())

	t.Run("replaces back", func(t *testing.T) {
		f.repo.EXPECT().Get(gomock.Any(), int64(8)).Return(Card{
			ID:    8,
			SetID: 1,
			Front: face(map[string]string{"title": "Old"}),
			Back:  face(map[string]string{"title": "Old Back"}),
		}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		body := `{"set_id":2,"front":{"text":{"title":{"text":"New"}}}}`
		handler.Replace(w, withID(httptest.NewRequest(http.MethodPut, "/v1/cards/8", strings.NewReader(body)), "8"))

		require.Equal(t, http.StatusOK, w.Code)
		var resp Response
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
		assert.Equal(t, int64(2), resp.SetID)
		assert.Equal(t, "New", resp.View.Name)
		assert.False(t, resp.View.IsDoubleFaced)
		assert.Equal(t, "/v1/cards/8", resp.ViewURL)
	})

	t.Run("requires set", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"front":{"text":{}}}`
		handler.Replace(w, withID(httptest.NewRequest(http.MethodPut, "/v1/cards/8", strings.NewReader(body)), "8"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHTTPHandler_Patch(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.service, zap.NewNop())

	f.repo.EXPECT().Get(gomock.Any(), int64(9)).Return(Card{
		ID:    9,
		SetID: 1,
		Front: face(map[string]string{"title": "Kept"}),
		Back:  face(map[string]string{"title": "Kept Back"}),
	}, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	w := httptest.NewRecorder()
	handler.Patch(w, withID(httptest.NewRequest(http.MethodPatch, "/v1/cards/9", strings.NewReader(`{"set_id":3}`)), "9"))

	require.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	assert.Equal(t, int64(3), resp.SetID)
	assert.Equal(t, "Kept", resp.View.Name)
	assert.Equal(t, "Kept Back", resp.View.NameBack)

	w = httptest.NewRecorder()
	handler.Patch(w, withID(httptest.NewRequest(http.MethodPatch, "/v1/cards/9", strings.NewReader(`{"set_id":-1}`)), "9"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHTTPHandler_Delete(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.service, zap.NewNop())

	f.repo.EXPECT().Delete(gomock.Any(), int64(10)).Return(nil)
	f.repo.EXPECT().Delete(gomock.Any(), int64(11)).Return(ErrNotFound)

	w := httptest.NewRecorder()
	handler.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/v1/cards/10", nil), "10"))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	handler.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/v1/cards/11", nil), "11"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

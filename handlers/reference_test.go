package handlers

import (
	"net/http"
	"testing"

	"personnel_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	user := s.userToken(t)

	rec := s.do(t, http.MethodPost, "/api/armes", admin, map[string]string{"nom": "Infanterie", "code": "INF"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var arme models.Arme
	decode(t, rec, &arme)

	rec = s.do(t, http.MethodPost, "/api/specialites", admin, map[string]string{"nom": "Tireur d'élite", "armeId": arme.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var specialite models.Specialite
	decode(t, rec, &specialite)

	t.Run("SpecialiteNameUniquePerArme", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/specialites", admin, map[string]string{"nom": "Tireur d'élite", "armeId": arme.ID})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("FilterSpecialitesByArme", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/specialites?armeId="+arme.ID, user, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []models.Specialite
		decode(t, rec, &list)
		assert.Len(t, list, 1)
	})

	t.Run("ArmeDeleteBlockedBySpecialite", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/api/armes/"+arme.ID, admin, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorMessage(t, rec), "1")
	})

	t.Run("UserReadsButCannotWrite", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/armes/"+arme.ID, user, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodPut, "/api/armes/"+arme.ID, user, map[string]string{"nom": "Cavalerie"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("FonctionAndPositionCRUD", func(t *testing.T) {
		for _, tc := range []struct {
			path  string
			field string
		}{
			{"/api/fonctions", "titre"},
			{"/api/positions", "nom"},
		} {
			rec := s.do(t, http.MethodPost, tc.path, admin, map[string]string{tc.field: "Chef de section"})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			var created map[string]interface{}
			decode(t, rec, &created)
			id := created["id"].(string)

			rec = s.do(t, http.MethodPost, tc.path, admin, map[string]string{tc.field: "Chef de section"})
			assert.Equal(t, http.StatusConflict, rec.Code, tc.path)

			rec = s.do(t, http.MethodPut, tc.path+"/"+id, admin, map[string]string{"description": "Mise à jour"})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			rec = s.do(t, http.MethodDelete, tc.path+"/"+id, admin, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			rec = s.do(t, http.MethodGet, tc.path+"/"+id, user, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		}
	})

	t.Run("SpecialiteDeleteThenArme", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/api/specialites/"+specialite.ID, admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = s.do(t, http.MethodDelete, "/api/armes/"+arme.ID, admin, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

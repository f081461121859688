package main

import (
	"net/http"
	"strings"

	"github.com/Simplici0/chefdevalor/internal/export"
	"github.com/Simplici0/chefdevalor/internal/planner"
	"github.com/Simplici0/chefdevalor/internal/pricing"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.TrimSpace(req.Email)
	ok, err := s.auth.validateCredentials(email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.auth.setSessionCookie(w, email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.planner.LaborConfig(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg pricing.LaborConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := s.planner.SaveLaborConfig(r.Context(), cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleRate(w http.ResponseWriter, r *http.Request) {
	view, err := s.planner.HourlyRate(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.planner.Ingredients(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ingredients == nil {
		ingredients = []pricing.Ingredient{}
	}
	writeJSON(w, http.StatusOK, ingredients)
}

func (s *server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var ing pricing.Ingredient
	if err := decodeJSON(r, &ing); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ing.ID = 0
	created, err := s.planner.CreateIngredient(r.Context(), ing)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var ing pricing.Ingredient
	if err := decodeJSON(r, &ing); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ing.ID = id
	updated, err := s.planner.UpdateIngredient(r.Context(), ing)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.planner.DeleteIngredient(r.Context(), id, parseFlag(r, "force")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	costs, err := s.planner.CostAllRecipes(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if costs == nil {
		costs = []planner.RecipeCost{}
	}
	writeJSON(w, http.StatusOK, costs)
}

func (s *server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var recipe pricing.Recipe
	if err := decodeJSON(r, &recipe); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recipe.ID = 0
	created, err := s.planner.CreateRecipe(r.Context(), recipe)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var recipe pricing.Recipe
	if err := decodeJSON(r, &recipe); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recipe.ID = id
	updated, err := s.planner.UpdateRecipe(r.Context(), recipe)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.planner.DeleteRecipe(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleRecipeCost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cost, err := s.planner.CostRecipe(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cost)
}

func (s *server) handlePreviewRecipe(w http.ResponseWriter, r *http.Request) {
	var draft pricing.Recipe
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cost, err := s.planner.PreviewRecipe(r.Context(), draft)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cost)
}

func (s *server) handleShopping(w http.ResponseWriter, r *http.Request) {
	view, err := s.planner.Shopping(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// adjustRequest carries either a delta (the +/- buttons) or an absolute count.
type adjustRequest struct {
	Type  pricing.SubjectType `json:"type"`
	ID    int64               `json:"id"`
	Delta int                 `json:"delta"`
	Count *int                `json:"count,omitempty"`
}

func (s *server) handleShoppingAdjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		view planner.ShoppingView
		err  error
	)
	if req.Count != nil {
		view, err = s.planner.SetShopping(r.Context(), req.Type, req.ID, *req.Count)
	} else {
		view, err = s.planner.AdjustShopping(r.Context(), req.Type, req.ID, req.Delta)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleShoppingClear(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.ClearShopping(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleShoppingText(w http.ResponseWriter, r *http.Request) {
	view, err := s.planner.Shopping(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(export.ShoppingListText(s.businessName, view.Result)))
}

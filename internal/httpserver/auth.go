package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartband-store/internal/service/auth"
)

type authResponse struct {
	Redirect string     `json:"redirect,omitempty"`
	State    auth.State `json:"state"`
}

func (h *handlers) authState(c *gin.Context) {
	c.JSON(http.StatusOK, authResponse{State: currentSession(c).Auth.State()})
}

func (h *handlers) login(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := auth.ValidateLogin(in); err != nil {
		h.writeServiceError(c, err)
		return
	}
	store := currentSession(c).Auth
	ok, err := store.Login(c.Request.Context(), in.Email, in.Password)
	h.writeAuthOutcome(c, store, ok, err)
}

func (h *handlers) register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := auth.ValidateRegister(in); err != nil {
		h.writeServiceError(c, err)
		return
	}
	store := currentSession(c).Auth
	ok, err := store.Register(c.Request.Context(), in)
	h.writeAuthOutcome(c, store, ok, err)
}

func (h *handlers) writeAuthOutcome(c *gin.Context, store *auth.Store, ok bool, err error) {
	switch {
	case errors.Is(err, auth.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": store.State()})
	case err != nil:
		h.writeServiceError(c, err)
	case !ok:
		st := store.State()
		msg := ""
		if st.Error != nil {
			msg = *st.Error
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg, "state": st})
	default:
		c.JSON(http.StatusOK, authResponse{Redirect: auth.DashboardPath, State: store.State()})
	}
}

func (h *handlers) logout(c *gin.Context) {
	store := currentSession(c).Auth
	if err := store.Logout(c.Request.Context()); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{State: store.State()})
}

func (h *handlers) clearAuthError(c *gin.Context) {
	store := currentSession(c).Auth
	store.ClearError()
	c.JSON(http.StatusOK, authResponse{State: store.State()})
}


package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contactsvc "smartband-store/internal/service/contact"
)

func (h *handlers) submitContact(c *gin.Context) {
	var in contactsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	msg, err := h.deps.ContactSvc.Submit(c.Request.Context(), in)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "message": contactsvc.SuccessMessage})
}

func (h *handlers) contactSubjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"subjects": contactsvc.Subjects})
}

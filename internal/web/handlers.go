package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/Zachkp/neon-portfolio/internal/contact"
	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/region"
	"github.com/Zachkp/neon-portfolio/internal/theme"
)

// Home page. The content sections start as empty shells; the live session
// fills them once its load completes.
func (s *Server) handleIndex(c *gin.Context) {
	mode, err := theme.FromContext(c.Request.Context())
	if err != nil {
		s.log.Error("rendering index without theme", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"profile":  content.Me,
		"contacts": content.Contacts,
		"nav":      region.Build(region.Default),
		"sections": sectionsView{Pending: true},
		"theme":    mode,
		"palette":  mode.Colors(),
		"matrix":   s.sessCfg.Matrix,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Handle contact form submission with HTMX
func (s *Server) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil && contact.Describe(err) == nil {
		c.HTML(http.StatusBadRequest, "contact-error.html", gin.H{
			"error": "Sorry, that message could not be read. Please try again.",
		})
		return
	}

	// validate what will actually be sent, not the padded input
	form.Normalize()
	if err := binding.Validator.ValidateStruct(&form); err != nil {
		c.HTML(http.StatusOK, "contact-invalid.html", gin.H{
			"errors": contact.Describe(err),
			"form":   form,
		})
		return
	}

	if err := s.submitter.Submit(c.Request.Context(), form); err != nil {
		if !errors.Is(err, c.Request.Context().Err()) {
			s.log.Error("contact submission failed", zap.Error(err))
		}
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Message sent successfully! I'll get back to you soon.",
	})
}

// handleTheme flips the visitor's theme and returns the new palette.
func (s *Server) handleTheme(c *gin.Context) {
	visitor := visitorFrom(c.Request.Context())
	if visitor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing visitor"})
		return
	}

	mode, err := s.prefs.Toggle(c.Request.Context(), visitor)
	if err != nil {
		s.log.Error("toggling theme", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"theme":   mode,
		"palette": mode.Colors(),
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DownloadInvoice streams the booking invoice PDF.
func DownloadInvoice(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	pdf, filename, err := docs(c).GenerateInvoice(c.Param("id"), u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdf, filename)
}

// DownloadETicket streams the e-ticket PDF for a confirmed booking.
func DownloadETicket(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	pdf, filename, err := docs(c).GenerateETicket(c.Param("id"), u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdf, filename)
}

func servePDF(c *gin.Context, pdf []byte, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

package errors

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// BindJSON decodes the request body into obj and validates it. An empty
// body is validated as "{}", so missing fields come back as field issues
// rather than a bare decode failure.
func BindJSON(c *gin.Context, obj interface{}) error {
	var err error
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		err = io.EOF
	} else {
		err = c.ShouldBindJSON(obj)
	}

	if stderrors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		return FromBinding(err)
	}
	return nil
}

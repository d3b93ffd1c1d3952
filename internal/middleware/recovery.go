package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// PanicError wraps a value recovered from a handler panic together with the
// stack captured at the point of recovery.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RecoverPanic is a gin.RecoveryFunc that hands the panic to ErrorHandler.
func RecoverPanic(c *gin.Context, recovered any) {
	_ = c.Error(&PanicError{Value: recovered, Stack: debug.Stack()})
	c.Abort()
}

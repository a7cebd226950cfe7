package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONRejection reports a refused request with a machine-readable reason code
// alongside the human message, so clients can branch without string matching.
func JSONRejection(c *gin.Context, code int, reason, message string) {
	c.JSON(code, gin.H{"success": false, "reason": reason, "error": message})
}

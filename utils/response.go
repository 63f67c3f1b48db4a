package utils

import "github.com/gin-gonic/gin"

//
// ===========================================================
//  JSON RESPONSE HELPERS
// ===========================================================
//

// JSONSuccess writes the standard success envelope the kiosk and dashboard
// clients unwrap: {"success": true, "data": ...}.
func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes the standard error envelope. The message is what the
// kiosk screen shows the visitor, so it must be human-readable.
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

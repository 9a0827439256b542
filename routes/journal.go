package routes

import (
	"mindgrove/controllers"

	"github.com/gin-gonic/gin"
)

func CreateEntryRouteHandler(ctx *gin.Context) {
	controllers.CreateEntry(ctx)
}

func ListEntriesRouteHandler(ctx *gin.Context) {
	controllers.ListEntries(ctx)
}

func DeleteEntriesRouteHandler(ctx *gin.Context) {
	controllers.DeleteEntries(ctx)
}

func DeleteAllEntriesRouteHandler(ctx *gin.Context) {
	controllers.DeleteAllEntries(ctx)
}

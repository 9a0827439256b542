package routes

import (
	"mindgrove/controllers"

	"github.com/gin-gonic/gin"
)

func ChatRouteHandler(ctx *gin.Context) {
	controllers.Chat(ctx)
}

func ResetChatRouteHandler(ctx *gin.Context) {
	controllers.ResetChat(ctx)
}

func WellnessTipRouteHandler(ctx *gin.Context) {
	controllers.GetWellnessTip(ctx)
}

package routes

import (
	"mindgrove/controllers"

	"github.com/gin-gonic/gin"
)

func MoodTrendRouteHandler(ctx *gin.Context) {
	controllers.GetMoodTrend(ctx)
}

func InsightsRouteHandler(ctx *gin.Context) {
	controllers.GetInsights(ctx)
}

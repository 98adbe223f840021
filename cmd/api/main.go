package main

import (
	_ "github.com/johnquangdev/meeting-insights/docs"
)

// @title           Meeting Insights API
// @version         1.0
// @description     Transcribes Zoom meeting recordings with speaker diarization and generates meeting insights.

// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	Execute()
}

package main

import (
	"fmt"
	"log"
	"os"

	"gtr-backend/config"
	"gtr-backend/models"
	"gtr-backend/routes"
	"gtr-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Account{},
		&models.User{},
		&models.Reminder{},
		&models.SentLog{},
	)
}

func main() {
	services.StartDispatchScheduler(config.DB)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kamal-Bhagchandani/jira-lite/handlers"
	"github.com/Kamal-Bhagchandani/jira-lite/logging"
	"github.com/Kamal-Bhagchandani/jira-lite/middleware"
	"github.com/Kamal-Bhagchandani/jira-lite/repositories"
	"github.com/Kamal-Bhagchandani/jira-lite/services"
	"github.com/Kamal-Bhagchandani/jira-lite/utils"
)

func main() {
	logging.InitLogger()
	logging.Logger.Info("Starting jira-lite...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatal("MONGO_URI and MONGO_DB_NAME must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Successfully connected to MongoDB at %s", mongoURI)

	db := client.Database(mongoDBName)
	userRepo := repositories.NewMongoUserRepository(db.Collection("users"))
	projectRepo := repositories.NewMongoProjectRepository(db.Collection("projects"))
	taskRepo := repositories.NewMongoTaskRepository(db.Collection("tasks"))

	var notifier services.Notifier
	if notificationsURL := os.Getenv("NOTIFICATIONS_URL"); notificationsURL != "" {
		notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "notifications-cb",
			MaxRequests: 1,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.Infof("Circuit breaker %q changed from %s to %s", name, from.String(), to.String())
			},
		})
		notifier = services.NewNotificationsClient(notificationsURL, utils.NewHTTPClient(), notificationsBreaker)
	} else {
		logging.Logger.Info("NOTIFICATIONS_URL not set, notifications disabled")
	}

	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, notifier)
	taskService := services.NewTaskService(taskRepo, projectRepo, notifier)

	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := mux.NewRouter()
	r.HandleFunc("/api/users/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", userHandler.Login).Methods(http.MethodPost)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(middleware.JWTAuth)
	authed.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	authed.HandleFunc("/projects", projectHandler.GetMyProjects).Methods(http.MethodGet)
	authed.HandleFunc("/projects/{projectId}", projectHandler.GetProject).Methods(http.MethodGet)
	authed.HandleFunc("/projects/{projectId}/members", projectHandler.AddMembers).Methods(http.MethodPost)
	authed.HandleFunc("/projects/{projectId}/member", projectHandler.AddMember).Methods(http.MethodPost)
	authed.HandleFunc("/projects/{projectId}/tasks", taskHandler.GetTasksByProject).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{taskId}", taskHandler.GetTask).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{taskId}/status", taskHandler.UpdateStatus).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{taskId}/assignee", taskHandler.Reassign).Methods(http.MethodPut)

	corsRouter := middleware.CORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}
	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Server failed to start: %v", err)
	}
}

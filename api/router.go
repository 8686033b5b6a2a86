package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/taskflow/taskflow/api/helpers"
	"github.com/taskflow/taskflow/api/projects"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/server"
	"github.com/taskflow/taskflow/util"
)

// Route declares all routes
func Route(
	store db.Store,
	projectService server.ProjectService,
	commentService server.CommentService,
	invitationService server.InvitationService,
) *mux.Router {
	projectController := &projects.ProjectController{ProjectService: projectService}
	invitationController := &projects.InvitationController{InvitationService: invitationService}
	commentController := &CommentController{CommentService: commentService}
	userController := &UserController{ProjectService: projectService}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(servePlainNotFound)
	r.Use(RequestIDMiddleware)

	publicAPI := r.PathPrefix("/api").Subrouter()
	publicAPI.Use(JSONMiddleware)
	publicAPI.HandleFunc("/ping", ping).Methods("GET", "HEAD")

	authenticatedAPI := r.PathPrefix("/api").Subrouter()
	authenticatedAPI.Use(JSONMiddleware, authenticationMiddleware(store))

	authenticatedAPI.Path("/info").HandlerFunc(getSystemInfo).Methods("GET", "HEAD")

	authenticatedAPI.Path("/user").HandlerFunc(userController.GetCurrentUser).Methods("GET", "HEAD")
	authenticatedAPI.Path("/users").HandlerFunc(userController.GetUsers).Methods("GET", "HEAD")
	authenticatedAPI.Path("/users").HandlerFunc(userController.AddUser).Methods("POST")
	authenticatedAPI.Path("/users/{user_id}").HandlerFunc(userController.GetUser).Methods("GET", "HEAD")

	authenticatedAPI.Path("/projects").HandlerFunc(projectController.GetProjects).Methods("GET", "HEAD")
	authenticatedAPI.Path("/projects").HandlerFunc(projectController.AddProject).Methods("POST")

	authenticatedAPI.Path("/comments").HandlerFunc(commentController.AddComment).Methods("POST")
	authenticatedAPI.Path("/comments/task/{task_id}").HandlerFunc(commentController.GetTaskComments).Methods("GET", "HEAD")
	authenticatedAPI.Path("/comments/{comment_id}").HandlerFunc(commentController.UpdateComment).Methods("PUT")
	authenticatedAPI.Path("/comments/{comment_id}").HandlerFunc(commentController.DeleteComment).Methods("DELETE")

	authenticatedAPI.Path("/invitations/accept").HandlerFunc(invitationController.AcceptInvitation).Methods("POST")
	authenticatedAPI.Path("/invitations/decline").HandlerFunc(invitationController.DeclineInvitation).Methods("POST")

	projectUserAPI := authenticatedAPI.PathPrefix("/project/{project_id}").Subrouter()
	projectUserAPI.Use(projectController.ProjectMiddleware)

	projectUserAPI.Path("").HandlerFunc(projectController.GetProject).Methods("GET", "HEAD")

	projectUserAPI.Path("/users").HandlerFunc(projectController.GetProjectUsers).Methods("GET", "HEAD")

	projectUserAPI.Path("/tasks").HandlerFunc(projectController.GetTasks).Methods("GET", "HEAD")
	projectUserAPI.Path("/tasks").HandlerFunc(projectController.AddTask).Methods("POST")
	projectUserAPI.Path("/tasks/{task_id}").HandlerFunc(projectController.GetTask).Methods("GET", "HEAD")

	projectUserAPI.Path("/invitations").HandlerFunc(invitationController.GetInvitations).Methods("GET", "HEAD")
	projectUserAPI.Path("/invitations").HandlerFunc(invitationController.CreateInvitation).Methods("POST")
	projectUserAPI.Path("/invitations/{invitation_id}").HandlerFunc(invitationController.RevokeInvitation).Methods("DELETE")

	return r
}

func servePlainNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("404 not found\n"))
}

func ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

func getSystemInfo(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"version": util.Version(),
	}

	if util.Config != nil {
		body["invitation_expiry_days"] = util.Config.InvitationExpiryDays
	}

	helpers.WriteJSON(w, http.StatusOK, body)
}

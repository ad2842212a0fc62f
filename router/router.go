package router

import (
	"log"

	"wakely/config"
	"wakely/controllers"
	"wakely/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares.
// Public routes + authenticated routes + "verified" routes (Authorizer).
func Initialize(r *gin.Engine, cfg config.Configuration) {
	_ = cfg

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/users", Logger(), controllers.CreateUser)
	api.POST("/login", Logger(), controllers.Login)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())
	auth.POST("/user/resend-code", Logger(), controllers.ResendVerifyCode)
	auth.POST("/user/verify/:code", Logger(), controllers.VerifyPhoneByCode)

	// Verified routes (token + active user)
	verified := auth.Group("")
	verified.Use(Authorizer())

	verified.GET("/me", Logger(), controllers.Me)
	verified.PUT("/me/push-token", Logger(), controllers.UpdatePushToken)

	// Contact matching (friend discovery)
	verified.POST("/contacts/match", Logger(), controllers.MatchContacts)

	// Friend requests + friends
	verified.POST("/friend-requests", Logger(), controllers.CreateFriendRequest)
	verified.GET("/friend-requests", Logger(), controllers.ListFriendRequests)
	verified.POST("/friend-requests/:id/accept", Logger(), controllers.AcceptFriendRequest)
	verified.POST("/friend-requests/:id/decline", Logger(), controllers.DeclineFriendRequest)
	verified.POST("/friend-requests/:id/cancel", Logger(), controllers.CancelFriendRequest)
	verified.GET("/friends", Logger(), controllers.GetFriends)
	verified.DELETE("/friends/:id", Logger(), controllers.RemoveFriend)

	// Escalation lifecycle (client coordinator hooks)
	verified.POST("/escalations", Logger(), controllers.TriggerEscalation)
	verified.POST("/escalations/:id/dismiss", Logger(), controllers.DismissEscalation)
	verified.POST("/escalations/:id/snooze", Logger(), controllers.SnoozeEscalation)
	verified.GET("/escalations/history", Logger(), controllers.GetEscalationHistory)
	verified.GET("/escalations/can-notify/:id", Logger(), controllers.CanNotifyFriend)

	// Stats
	verified.GET("/stats/wakeup", Logger(), controllers.GetWakeUpStats)

	log.Printf("Routes initialized")
}

package router

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/handler"
	"eventhub/internal/adapter/api/middleware"
)

func SetupConversationRouter(e *echo.Echo, conversationHandler *handler.ConversationHandler, authMiddleware *middleware.AuthMiddleware) {
	conversations := e.Group("/api/conversations", authMiddleware.Authenticate)

	conversations.GET("", conversationHandler.ListConversations)
	conversations.POST("", conversationHandler.StartConversation)
	conversations.GET("/unread", conversationHandler.UnreadCount)
	conversations.GET("/:id", conversationHandler.GetConversation)
	conversations.DELETE("/:id", conversationHandler.DeleteConversation)

	e.POST("/api/messages", conversationHandler.SendMessage, authMiddleware.Authenticate)
}

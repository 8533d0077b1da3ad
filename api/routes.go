package api

import (
	"github.com/SlpAus/contest-hub-backend/internal/contest"
	"github.com/SlpAus/contest-hub-backend/internal/platform/health"
	"github.com/SlpAus/contest-hub-backend/internal/ranking"
	"github.com/SlpAus/contest-hub-backend/internal/registration"
	"github.com/SlpAus/contest-hub-backend/internal/submission"
	"github.com/SlpAus/contest-hub-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", health.StatusHandler)

		// 会话相关的路由
		api.POST("/jwt", user.IssueToken)
		api.POST("/logout", user.Logout)

		// 用户相关的路由组 /api/users
		userRoutes := api.Group("/users")
		{
			userRoutes.GET("/me", user.RequireAuth(), user.GetMe)
			userRoutes.PATCH("/profile/:email", user.RequireAuth(), user.UpdateProfileHandler)
			userRoutes.PATCH("/role/:email", user.RequireAuth(), user.RequireAdmin(), user.UpdateRoleHandler)
		}

		// 比赛相关的路由组 /api/contests
		contestRoutes := api.Group("/contests")
		{
			contestRoutes.GET("", user.OptionalAuth(), contest.ListContestsHandler)
			contestRoutes.GET("/:id", contest.GetContestHandler)
			contestRoutes.POST("", user.RequireAuth(), contest.CreateContestHandler)
			contestRoutes.PUT("/:id", user.RequireAuth(), contest.UpdateContestHandler)
			contestRoutes.DELETE("/:id", user.RequireAuth(), contest.DeleteContestHandler)
			// 管理员审核：approve / reject
			contestRoutes.PATCH("/status/:id", user.RequireAuth(), user.RequireAdmin(), contest.UpdateStatusHandler)
		}

		// 管理员视图：全部比赛加显式状态过滤
		api.GET("/admin/contests", user.RequireAuth(), user.RequireAdmin(), contest.ListContestsForAdminHandler)

		// 报名与付款
		api.POST("/payments", user.RequireAuth(), registration.RegisterHandler)
		api.GET("/payments", user.RequireAuth(), registration.ListMyPaymentsHandler)

		// 作品与获胜者
		api.POST("/submissions", user.RequireAuth(), submission.SubmitHandler)
		api.GET("/submissions", user.RequireAuth(), submission.ListByContestHandler)
		api.PATCH("/submissions/winner/:id", user.RequireAuth(), submission.DeclareWinnerHandler)

		// 聚合视图
		api.GET("/leaderboard", ranking.LeaderboardHandler)
		api.GET("/winners", ranking.RecentWinnersHandler)
	}
}

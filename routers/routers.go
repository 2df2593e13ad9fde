package routers

import (
	"foodgram/handlers"
	"foodgram/images"
	"foodgram/jwt"
	"foodgram/middleware"
	"foodgram/report"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"strings"
)

// Services 路由所需的依賴
type Services struct {
	DB           *gorm.DB
	Tokens       *jwt.TokenManager
	TagCache     *handlers.TagCache
	Images       *images.Store
	Renderer     *report.Renderer
	Logger       *zap.Logger
	AllowOrigins []string
}

func SetupRouters(s Services) *gin.Engine {
	db := s.DB
	store := s.Images

	//建立Gin路由器
	router := gin.New()
	router.Use(
		middleware.LoggerMiddleware(s.Logger),
		middleware.RecoveryMiddleware(s.Logger),
		middleware.CORSMiddleware(s.AllowOrigins),
	)
	_ = router.SetTrustedProxies(nil)

	//設定食譜圖片靜態資源路徑
	router.Static(strings.TrimSuffix(store.URLPrefix, "/"), store.Dir)

	api := router.Group("/api")
	//無須權限，使用中間件辨識登入使用者
	api.Use(middleware.AuthMiddleware(db, s.Tokens))

	loginRequired := middleware.CheckLoginMiddleware()
	adminRequired := middleware.CheckAdminPermissionMiddleware()

	users := api.Group("/users")
	{
		//註冊帳號
		users.POST("/", func(context *gin.Context) {
			handlers.RegisterHandler(context, db)
		})
		//查詢使用者列表
		users.GET("/", func(context *gin.Context) {
			handlers.GetUserListHandler(context, db)
		})
		//查詢目前使用者
		users.GET("/me", loginRequired, func(context *gin.Context) {
			handlers.GetCurrentUserHandler(context, db)
		})
		//變更密碼
		users.POST("/set_password", loginRequired, func(context *gin.Context) {
			handlers.SetPasswordHandler(context, db)
		})
		//查詢訂閱列表
		users.GET("/subscriptions", loginRequired, func(context *gin.Context) {
			handlers.GetSubscriptionsHandler(context, db, store)
		})
		//查詢使用者
		users.GET("/:id", func(context *gin.Context) {
			handlers.GetUserHandler(context, db)
		})
		//訂閱作者
		users.POST("/:id/subscribe", loginRequired, func(context *gin.Context) {
			handlers.SubscribeHandler(context, db, store)
		})
		//取消訂閱
		users.DELETE("/:id/subscribe", loginRequired, func(context *gin.Context) {
			handlers.UnsubscribeHandler(context, db, store)
		})
	}

	auth := api.Group("/auth/token")
	{
		//登入帳號
		auth.POST("/login", func(context *gin.Context) {
			handlers.LoginHandler(context, db, s.Tokens)
		})
		//登出
		auth.POST("/logout", loginRequired, func(context *gin.Context) {
			handlers.LogOutHandler(context, db)
		})
	}

	tags := api.Group("/tags")
	{
		tags.GET("/", func(context *gin.Context) {
			handlers.GetTagListHandler(context, db, s.TagCache)
		})
		tags.GET("/:id", func(context *gin.Context) {
			handlers.GetTagHandler(context, db)
		})
		tags.POST("/", loginRequired, adminRequired, func(context *gin.Context) {
			handlers.CreateTagHandler(context, db, s.TagCache)
		})
		tags.DELETE("/:id", loginRequired, adminRequired, func(context *gin.Context) {
			handlers.DeleteTagHandler(context, db, s.TagCache)
		})
	}

	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("/", func(context *gin.Context) {
			handlers.GetIngredientListHandler(context, db)
		})
		ingredients.GET("/:id", func(context *gin.Context) {
			handlers.GetIngredientHandler(context, db)
		})
		ingredients.POST("/", loginRequired, adminRequired, func(context *gin.Context) {
			handlers.CreateIngredientHandler(context, db)
		})
	}

	recipes := api.Group("/recipes")
	{
		//查詢食譜列表
		recipes.GET("/", func(context *gin.Context) {
			handlers.GetRecipeListHandler(context, db, store)
		})
		//新增食譜
		recipes.POST("/", loginRequired, func(context *gin.Context) {
			handlers.CreateRecipeHandler(context, db, store)
		})
		//下載購物清單
		recipes.GET("/download_shopping_cart", loginRequired, func(context *gin.Context) {
			handlers.DownloadShoppingCartHandler(context, db, s.Renderer)
		})
		//查詢食譜
		recipes.GET("/:id", func(context *gin.Context) {
			handlers.GetRecipeHandler(context, db, store)
		})
		//修改食譜(作者或admin)
		recipes.PUT("/:id", loginRequired, func(context *gin.Context) {
			handlers.UpdateRecipeHandler(context, db, store)
		})
		recipes.PATCH("/:id", handlers.MethodNotAllowedHandler)
		//刪除食譜(作者或admin)
		recipes.DELETE("/:id", loginRequired, func(context *gin.Context) {
			handlers.DeleteRecipeHandler(context, db, store)
		})
		//最愛
		recipes.POST("/:id/favorite", loginRequired, func(context *gin.Context) {
			handlers.AddToFavoritesHandler(context, db, store)
		})
		recipes.DELETE("/:id/favorite", loginRequired, func(context *gin.Context) {
			handlers.RemoveFromFavoritesHandler(context, db, store)
		})
		//購物車
		recipes.POST("/:id/shopping_cart", loginRequired, func(context *gin.Context) {
			handlers.AddToCartHandler(context, db, store)
		})
		recipes.DELETE("/:id/shopping_cart", loginRequired, func(context *gin.Context) {
			handlers.RemoveFromCartHandler(context, db, store)
		})
	}

	return router
}

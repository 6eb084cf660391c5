package v1

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/config"
	"careerpilot/internal/database"
	"careerpilot/internal/delivery/http/handler"
	"careerpilot/internal/delivery/http/middleware"
	"careerpilot/internal/pkg/jwt"
	"careerpilot/internal/repository"
	"careerpilot/internal/usecase"
)

// Register wires the v1 API surface: repositories over the shared DB,
// usecases over the shared generator and cache, handlers on top.
func Register(r fiber.Router, cfg config.Config, db database.DB, gen usecase.TextGenerator, contentCache usecase.ContentCache, logger *log.Logger) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(db)
	insightRepo := repository.NewPostgresInsightRepository(db)
	assessmentRepo := repository.NewPostgresAssessmentRepository(db)
	resumeRepo := repository.NewPostgresResumeRepository(db)
	coverLetterRepo := repository.NewPostgresCoverLetterRepository(db)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	insightUC := usecase.NewInsightUsecase(insightRepo, gen, contentCache, logger, cfg.Refresh.Workers)
	userUC := usecase.NewUserUsecase(userRepo, insightUC)
	assessmentUC := usecase.NewAssessmentUsecase(assessmentRepo, userRepo, gen, logger)
	careerDocUC := usecase.NewCareerDocUsecase(resumeRepo, coverLetterRepo, userRepo, gen)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	insightHandler := handler.NewInsightHandler(insightUC, userUC)
	assessmentHandler := handler.NewAssessmentHandler(assessmentUC, userUC)
	careerDocHandler := handler.NewCareerDocHandler(careerDocUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	userHandler.RegisterRoutes(protected.Group("/users"))
	insightHandler.RegisterRoutes(protected.Group("/insights"))
	assessmentHandler.RegisterRoutes(protected.Group("/assessments"))
	careerDocHandler.RegisterResumeRoutes(protected.Group("/resume"))
	careerDocHandler.RegisterCoverLetterRoutes(protected.Group("/cover-letters"))
}

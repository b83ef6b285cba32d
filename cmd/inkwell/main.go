package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tkucar/inkwell/internal/config"
	"github.com/tkucar/inkwell/internal/database"
	postgresrepo "github.com/tkucar/inkwell/internal/repository/postgres"
	"github.com/tkucar/inkwell/internal/scheduler"
	"github.com/tkucar/inkwell/internal/service"
	"github.com/tkucar/inkwell/internal/transport/http/handlers"
	"github.com/tkucar/inkwell/internal/transport/http/middleware"
)

func main() {
	root := &cobra.Command{
		Use:          "inkwell",
		Short:        "Content publishing backend",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), sweepCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the scheduled-publish sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one scheduled-publish pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			pool, err := database.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			postRepo := postgresrepo.NewPostRepo(pool)
			userRepo := postgresrepo.NewUserRepo(pool)
			statsRepo := postgresrepo.NewStatsRepo(pool)
			postService := service.NewPostService(postRepo, userRepo, statsRepo)

			count, err := postService.PublishDue(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			log.Printf("published %d due post(s)", count)
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			pool, err := database.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			log.Println("schema applied")
			return nil
		},
	}
}

func serve() error {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)
	commentRepo := postgresrepo.NewCommentRepo(pool)
	likeRepo := postgresrepo.NewLikeRepo(pool)
	followRepo := postgresrepo.NewFollowRepo(pool)
	statsRepo := postgresrepo.NewStatsRepo(pool)

	// Services
	identityService := service.NewIdentityService(userRepo)
	postService := service.NewPostService(postRepo, userRepo, statsRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)
	likeService := service.NewLikeService(likeRepo, postRepo)
	followService := service.NewFollowService(followRepo, userRepo)
	statsService := service.NewStatsService(statsRepo, postRepo)

	// Handlers
	identityHandler := handlers.NewIdentityHandler(identityService)
	postHandler := handlers.NewPostHandler(postService, identityService)
	commentHandler := handlers.NewCommentHandler(commentService, identityService)
	likeHandler := handlers.NewLikeHandler(likeService, identityService)
	followHandler := handlers.NewFollowHandler(followService, identityService)
	statsHandler := handlers.NewStatsHandler(statsService, identityService)

	auth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Identity
	mux.Handle("POST /api/v1/identity/store", auth(http.HandlerFunc(identityHandler.Store)))
	mux.Handle("PUT /api/v1/identity/username", auth(http.HandlerFunc(identityHandler.ClaimUsername)))
	mux.Handle("GET /api/v1/identity/me", auth(http.HandlerFunc(identityHandler.Me)))
	mux.HandleFunc("GET /api/v1/users/{username}", identityHandler.GetByUsername)
	mux.HandleFunc("GET /api/v1/users", identityHandler.Search)

	// Posts
	mux.Handle("POST /api/v1/posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /api/v1/posts", auth(http.HandlerFunc(postHandler.ListMine)))
	mux.Handle("GET /api/v1/posts/{id}", auth(http.HandlerFunc(postHandler.Get)))
	mux.Handle("PATCH /api/v1/posts/{id}", auth(http.HandlerFunc(postHandler.Update)))
	mux.Handle("DELETE /api/v1/posts/{id}", auth(http.HandlerFunc(postHandler.Delete)))
	mux.HandleFunc("GET /api/v1/feed", postHandler.Feed)
	mux.HandleFunc("GET /api/v1/search/posts", postHandler.Search)
	mux.HandleFunc("GET /api/v1/users/{username}/posts/{id}", postHandler.GetPublished)
	mux.HandleFunc("POST /api/v1/posts/{id}/view", postHandler.IncrementView)

	// Comments
	mux.Handle("POST /api/v1/posts/{id}/comments", optionalAuth(http.HandlerFunc(commentHandler.Add)))
	mux.HandleFunc("GET /api/v1/posts/{id}/comments", commentHandler.List)
	mux.Handle("DELETE /api/v1/comments/{id}", auth(http.HandlerFunc(commentHandler.Delete)))

	// Likes
	mux.Handle("POST /api/v1/posts/{id}/like", auth(http.HandlerFunc(likeHandler.Toggle)))
	mux.Handle("GET /api/v1/posts/{id}/like", auth(http.HandlerFunc(likeHandler.HasLiked)))

	// Follows
	mux.Handle("POST /api/v1/follows/{id}", auth(http.HandlerFunc(followHandler.Follow)))
	mux.Handle("DELETE /api/v1/follows/{id}", auth(http.HandlerFunc(followHandler.Unfollow)))
	mux.Handle("GET /api/v1/follows/{id}", auth(http.HandlerFunc(followHandler.IsFollowing)))
	mux.HandleFunc("GET /api/v1/users/{id}/followers", followHandler.ListFollowers)
	mux.HandleFunc("GET /api/v1/users/{id}/following", followHandler.ListFollowing)
	mux.HandleFunc("GET /api/v1/users/{id}/follow-counts", followHandler.Counts)

	// Stats
	mux.Handle("GET /api/v1/posts/{id}/stats", auth(http.HandlerFunc(statsHandler.Series)))
	mux.Handle("GET /api/v1/posts/{id}/totals", auth(http.HandlerFunc(statsHandler.Totals)))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.CORS(mux),
	}

	sweeper := scheduler.New(postService, cfg.SweepInterval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := sweeper.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

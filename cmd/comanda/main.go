package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"comanda-client/internal/analytics"
	"comanda-client/internal/api"
	"comanda-client/internal/config"
	"comanda-client/internal/logger"
	"comanda-client/internal/qr"
	"comanda-client/internal/repository"
	"comanda-client/internal/tokenstore"
)

const usage = `comanda - restaurant ordering client

usage: comanda <command> [flags]

account:
  register  -username -email -password
  login     -email -password
  logout
  me

browsing:
  categories [-all]
  menu       [-category N] [-search text]

cart:
  cart show
  cart add    -item N [-qty N]
  cart update -id N -qty N     (qty 0 removes the line)
  cart remove -id N
  cart clear

orders:
  order place
  order list
  order show   -id N
  order cancel -id N
  order qr     -id N

staff:
  admin orders  [-status S] [-date YYYY-MM-DD] [-customer text]
  admin status  -id N -to STATUS
  admin batch   -ids 1,2,3 -to STATUS
  admin stats
  admin summary
  admin urgent
  admin export  [-status S] [-date YYYY-MM-DD]
  admin board   [-interval seconds]
`

// app bundles everything a command needs.
type app struct {
	cfg        config.Config
	store      tokenstore.Store
	auth       *repository.AuthRepository
	categories *repository.CategoryRepository
	menu       *repository.MenuRepository
	cart       *repository.CartRepository
	orders     *repository.OrderRepository
	admin      *repository.AdminOrderRepository
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	store := tokenstore.NewFileStore(cfg.SessionFile)
	transport := api.NewAuthenticator(store, nil)
	client, err := api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Prefix:  cfg.APIPrefix,
		HTTPClient: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
		},
		Logger: log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid client configuration")
	}

	a := &app{
		cfg:        cfg,
		store:      store,
		auth:       repository.NewAuthRepository(client, store, log),
		categories: repository.NewCategoryRepository(client),
		menu:       repository.NewMenuRepository(client),
		cart:       repository.NewCartRepository(client),
		orders:     repository.NewOrderRepository(client),
		admin:      repository.NewAdminOrderRepository(client, &analytics.Local{}),
	}

	ctx := context.Background()
	if err := a.dispatch(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.cmdRegister(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "me":
		return a.cmdMe(ctx)
	case "categories":
		return a.cmdCategories(ctx, args)
	case "menu":
		return a.cmdMenu(ctx, args)
	case "cart":
		return a.cmdCart(ctx, args)
	case "order":
		return a.cmdOrder(ctx, args)
	case "admin":
		return a.cmdAdmin(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	res := a.auth.Register(ctx, registerRequest(*username, *email, *password))
	pair, ok := res.Data()
	if !ok {
		return fmt.Errorf("%s", res.Message())
	}
	fmt.Printf("registered and logged in as %s\n", pair.User.Username)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	res := a.auth.Login(ctx, loginRequest(*email, *password))
	pair, ok := res.Data()
	if !ok {
		return fmt.Errorf("%s", res.Message())
	}
	fmt.Printf("logged in as %s (%s)\n", pair.User.Username, pair.User.Role)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	a.auth.Logout(ctx)
	fmt.Println("logged out")
	return nil
}

func (a *app) cmdMe(ctx context.Context) error {
	if sess := a.auth.Session(); sess.LoggedIn() && tokenstore.TokenExpired(sess.AccessToken, timeNow()) {
		fmt.Println("session expired, please log in again")
		return nil
	}
	res := a.auth.Me(ctx)
	user, ok := res.Data()
	if !ok {
		return fmt.Errorf("%s", res.Message())
	}
	fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
	return nil
}

func (a *app) cmdQR(orderID int) error {
	gen := qr.PickupQR{BaseURL: a.cfg.BaseURL}
	path, err := qr.SaveTo(gen, a.cfg.QROutputDir, orderID)
	if err != nil {
		return err
	}
	fmt.Printf("pickup QR written to %s\n", path)
	return nil
}

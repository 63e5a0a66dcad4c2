package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"comanda-client/internal/analytics"
	"comanda-client/internal/domain"
	"comanda-client/internal/repository"
	"comanda-client/internal/result"
	"comanda-client/internal/state"
)

func timeNow() time.Time { return time.Now() }

func registerRequest(username, email, password string) domain.RegisterRequest {
	return domain.RegisterRequest{Username: username, Email: email, Password: password}
}

func loginRequest(email, password string) domain.LoginRequest {
	return domain.LoginRequest{Email: email, Password: password}
}

func (a *app) cmdCategories(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	all := fs.Bool("all", false, "include inactive categories")
	fs.Parse(args)

	res := a.categories.List(ctx, !*all)
	cats, ok := res.Data()
	if !ok {
		return fmt.Errorf("%s", res.Message())
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tDESCRIPTION")
	for _, c := range cats {
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", c.ID, c.Name, c.Active, c.Description)
	}
	return w.Flush()
}

func (a *app) cmdMenu(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("menu", flag.ExitOnError)
	category := fs.Int("category", 0, "filter by category id")
	search := fs.String("search", "", "search term")
	fs.Parse(args)

	res := a.menu.List(ctx, repository.MenuFilter{
		CategoryID:    *category,
		AvailableOnly: true,
		Search:        *search,
	})
	items, ok := res.Data()
	if !ok {
		return fmt.Errorf("%s", res.Message())
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", item.ID, item.Name, analytics.FormatAmount(item.Price), item.CategoryID)
	}
	return w.Flush()
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "show":
		return a.printCart(a.cart.Get(ctx))
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ExitOnError)
		item := fs.Int("item", 0, "menu item id")
		qty := fs.Int("qty", 1, "quantity")
		fs.Parse(rest)
		return a.printCart(a.cart.AddItem(ctx, *item, *qty))
	case "update":
		fs := flag.NewFlagSet("cart update", flag.ExitOnError)
		id := fs.Int("id", 0, "cart line id")
		qty := fs.Int("qty", 0, "new quantity; 0 removes the line")
		fs.Parse(rest)
		return a.printCart(a.cart.UpdateItem(ctx, *id, *qty))
	case "remove":
		fs := flag.NewFlagSet("cart remove", flag.ExitOnError)
		id := fs.Int("id", 0, "cart line id")
		fs.Parse(rest)
		if res := a.cart.RemoveItem(ctx, *id); res.IsError() {
			return fmt.Errorf("%s", res.Message())
		}
		return a.printCart(a.cart.Get(ctx))
	case "clear":
		if res := a.cart.Clear(ctx); res.IsError() {
			return fmt.Errorf("%s", res.Message())
		}
		fmt.Println("cart cleared")
		return nil
	default:
		return fmt.Errorf("unknown cart subcommand %q", sub)
	}
}

func (a *app) printCart(res result.Result[domain.Cart]) error {
	cart, ok := res.Data()
	if !ok {
		return fmt.Errorf("%s", res.Message())
	}
	if len(cart.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tITEM\tQTY\tPRICE")
	for _, line := range cart.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", line.ID, line.Name, line.Quantity, analytics.FormatAmount(line.Price))
	}
	fmt.Fprintf(w, "\tTOTAL\t\t%s\n", analytics.FormatAmount(cart.Total))
	return w.Flush()
}

func (a *app) cmdOrder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "place":
		res := a.orders.Place(ctx)
		order, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		fmt.Printf("order #%d placed, total %s\n", order.ID, analytics.FormatAmount(order.Total))
		return nil
	case "list":
		res := a.orders.List(ctx)
		orders, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		return printOrders(orders)
	case "show":
		fs := flag.NewFlagSet("order show", flag.ExitOnError)
		id := fs.Int("id", 0, "order id")
		fs.Parse(rest)
		res := a.orders.Get(ctx, *id)
		order, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		printOrderDetail(order)
		return nil
	case "cancel":
		fs := flag.NewFlagSet("order cancel", flag.ExitOnError)
		id := fs.Int("id", 0, "order id")
		fs.Parse(rest)
		res := a.orders.Cancel(ctx, *id)
		order, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		fmt.Printf("order #%d is now %s\n", order.ID, order.Status)
		return nil
	case "qr":
		fs := flag.NewFlagSet("order qr", flag.ExitOnError)
		id := fs.Int("id", 0, "order id")
		fs.Parse(rest)
		return a.cmdQR(*id)
	default:
		return fmt.Errorf("unknown order subcommand %q", sub)
	}
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("admin needs a subcommand")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "orders":
		fs := flag.NewFlagSet("admin orders", flag.ExitOnError)
		status := fs.String("status", "", "status filter")
		date := fs.String("date", "", "date filter YYYY-MM-DD")
		customer := fs.String("customer", "", "local customer name search")
		fs.Parse(rest)

		res := a.admin.ListAll(ctx, repository.AdminOrderFilter{
			Status: domain.OrderStatus(*status),
			Date:   *date,
		})
		orders, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		if *customer != "" {
			snap := state.AdminOrdersSnapshot{Orders: orders, CustomerSearch: *customer}
			orders = snap.Visible()
		}
		return printOrders(orders)
	case "status":
		fs := flag.NewFlagSet("admin status", flag.ExitOnError)
		id := fs.Int("id", 0, "order id")
		to := fs.String("to", "", "target status")
		fs.Parse(rest)
		res := a.admin.UpdateStatus(ctx, *id, domain.OrderStatus(strings.ToUpper(*to)))
		order, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		fmt.Printf("order #%d is now %s\n", order.ID, order.Status)
		return nil
	case "batch":
		fs := flag.NewFlagSet("admin batch", flag.ExitOnError)
		idsArg := fs.String("ids", "", "comma-separated order ids")
		to := fs.String("to", "", "target status")
		fs.Parse(rest)
		ids, err := parseIDs(*idsArg)
		if err != nil {
			return err
		}
		res := a.admin.BatchUpdateStatus(ctx, ids, domain.OrderStatus(strings.ToUpper(*to)))
		orders, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		fmt.Printf("updated %d orders\n", len(orders))
		return nil
	case "stats":
		res := a.admin.DailyStats(ctx)
		stats, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tORDERS\tITEMS\tREVENUE")
		for _, stat := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", stat.Date, stat.OrderCount, stat.ItemsSold, stat.Revenue)
		}
		return w.Flush()
	case "summary":
		res := a.admin.ActiveSummary(ctx)
		summary, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		fmt.Printf("%d active orders\n", summary.Total)
		for _, sc := range summary.ByStatus {
			fmt.Printf("  %s: %d\n", sc.Status, sc.Count)
		}
		return nil
	case "urgent":
		res := a.admin.UrgentOrders(ctx, a.cfg.UrgentAfter)
		orders, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		if len(orders) == 0 {
			fmt.Println("no urgent orders")
			return nil
		}
		return printOrders(orders)
	case "export":
		fs := flag.NewFlagSet("admin export", flag.ExitOnError)
		status := fs.String("status", "", "status filter")
		date := fs.String("date", "", "date filter YYYY-MM-DD")
		fs.Parse(rest)
		res := a.admin.ExportCSV(ctx, repository.AdminOrderFilter{
			Status: domain.OrderStatus(*status),
			Date:   *date,
		})
		csvText, ok := res.Data()
		if !ok {
			return fmt.Errorf("%s", res.Message())
		}
		fmt.Print(csvText)
		return nil
	case "board":
		fs := flag.NewFlagSet("admin board", flag.ExitOnError)
		interval := fs.Int("interval", 10, "refresh interval in seconds")
		fs.Parse(rest)
		return a.runBoard(time.Duration(*interval) * time.Second)
	default:
		return fmt.Errorf("unknown admin subcommand %q", sub)
	}
}

// runBoard is the live counter display: an AdminOrdersState holder reloads
// on a ticker and every snapshot replacement repaints the screen.
func (a *app) runBoard(interval time.Duration) error {
	holder := state.NewAdminOrdersState(a.admin)
	defer holder.Close()

	snapshots := holder.Subscribe()
	holder.Load()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case snap, open := <-snapshots:
			if !open {
				return nil
			}
			if snap.Loading {
				continue
			}
			fmt.Print("\033[H\033[2J")
			if snap.Error != "" {
				fmt.Println("error:", snap.Error)
				continue
			}
			fmt.Printf("-- order board, %s --\n", time.Now().Format("15:04:05"))
			if err := printOrders(snap.Visible()); err != nil {
				return err
			}
		case <-ticker.C:
			holder.Load()
		case <-stop:
			return nil
		}
	}
}

func printOrders(orders []domain.Order) error {
	if len(orders) == 0 {
		fmt.Println("no orders")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tSTATUS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.CustomerName, o.Status, analytics.FormatAmount(o.Total), o.CreatedAt)
	}
	return w.Flush()
}

func printOrderDetail(o domain.Order) {
	fmt.Printf("order #%d  %s  total %s  placed %s\n", o.ID, o.Status, analytics.FormatAmount(o.Total), o.CreatedAt)
	for _, item := range o.Items {
		fmt.Printf("  %dx %s @ %s\n", item.Quantity, item.Name, analytics.FormatAmount(item.Price))
	}
	if actions := state.NextActions(o.Status); len(actions) > 0 {
		names := make([]string, len(actions))
		for i, s := range actions {
			names[i] = string(s)
		}
		fmt.Printf("  next: %s\n", strings.Join(names, ", "))
	}
}

func parseIDs(arg string) ([]int, error) {
	if arg == "" {
		return nil, fmt.Errorf("no order ids given")
	}
	parts := strings.Split(arg, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid order id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

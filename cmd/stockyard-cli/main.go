package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"stockyard/pkg/stockyard"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: stockyard-cli <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  version                                  Print the CLI version\n")
	fmt.Fprintf(os.Stderr, "  inventory                                Print the inventory listing\n")
	fmt.Fprintf(os.Stderr, "  best-selling                             Print the best-seller report\n")
	fmt.Fprintf(os.Stderr, "  add-product <id> <name> <amount> <policy> <unit-price>\n")
	fmt.Fprintf(os.Stderr, "  change-stock <id> <delta>                Adjust a product's stock\n")
	fmt.Fprintf(os.Stderr, "  clear-product <id>                       Remove a product everywhere\n")
	fmt.Fprintf(os.Stderr, "  new-order                                Create an empty order\n")
	fmt.Fprintf(os.Stderr, "  add-item <order-id> <product-id> <delta> Adjust an order line\n")
	fmt.Fprintf(os.Stderr, "  order <order-id>                         Print an order summary\n")
	fmt.Fprintf(os.Stderr, "  ship <order-id>                          Ship an order\n")
	fmt.Fprintf(os.Stderr, "  cancel <order-id>                        Cancel an order\n")
	fmt.Fprintf(os.Stderr, "  shipments                                List the shipment ledger\n")
	fmt.Fprintf(os.Stderr, "\nThe server address comes from STOCKYARD_ADDR (default http://localhost:8080).\n")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func parseU32(s, what string) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		fatalf("invalid %s %q", what, s)
	}
	return uint32(v)
}

func parseF64(s, what string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fatalf("invalid %s %q", what, s)
	}
	return v
}

func main() {
	flag.Usage = usage

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	addr := "http://localhost:8080"
	if a := os.Getenv("STOCKYARD_ADDR"); a != "" {
		addr = a
	}
	client := stockyard.NewClient(addr)
	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "version":
		fmt.Printf("stockyard-cli %s\n", version)

	case "inventory":
		report, err := client.Inventory(ctx)
		if err != nil {
			fatalf("inventory: %v", err)
		}
		fmt.Print(report)

	case "best-selling":
		report, err := client.BestSelling(ctx)
		if err != nil {
			fatalf("best-selling: %v", err)
		}
		fmt.Print(report)

	case "add-product":
		if len(args) != 5 {
			fatalf("usage: add-product <id> <name> <amount> <policy> <unit-price>")
		}
		p := stockyard.Product{
			ID:      parseU32(args[0], "product id"),
			Name:    args[1],
			Amount:  parseF64(args[2], "amount"),
			Policy:  args[3],
			Pricing: stockyard.Pricing{Kind: "unit", Unit: parseF64(args[4], "unit price")},
		}
		if err := client.AddProduct(ctx, p); err != nil {
			fatalf("add-product: %v", err)
		}
		fmt.Printf("product %d registered\n", p.ID)

	case "change-stock":
		if len(args) != 2 {
			fatalf("usage: change-stock <id> <delta>")
		}
		id := parseU32(args[0], "product id")
		if err := client.ChangeProductAmount(ctx, id, parseF64(args[1], "delta")); err != nil {
			fatalf("change-stock: %v", err)
		}
		fmt.Printf("product %d updated\n", id)

	case "clear-product":
		if len(args) != 1 {
			fatalf("usage: clear-product <id>")
		}
		id := parseU32(args[0], "product id")
		if err := client.ClearProduct(ctx, id); err != nil {
			fatalf("clear-product: %v", err)
		}
		fmt.Printf("product %d cleared\n", id)

	case "new-order":
		id, err := client.NewOrder(ctx)
		if err != nil {
			fatalf("new-order: %v", err)
		}
		fmt.Printf("order %d created\n", id)

	case "add-item":
		if len(args) != 3 {
			fatalf("usage: add-item <order-id> <product-id> <delta>")
		}
		orderID := parseU32(args[0], "order id")
		productID := parseU32(args[1], "product id")
		if err := client.ChangeOrderItem(ctx, orderID, productID, parseF64(args[2], "delta")); err != nil {
			fatalf("add-item: %v", err)
		}
		fmt.Printf("order %d updated\n", orderID)

	case "order":
		if len(args) != 1 {
			fatalf("usage: order <order-id>")
		}
		report, err := client.OrderReport(ctx, parseU32(args[0], "order id"))
		if err != nil {
			fatalf("order: %v", err)
		}
		fmt.Print(report)

	case "ship":
		if len(args) != 1 {
			fatalf("usage: ship <order-id>")
		}
		shipment, err := client.ShipOrder(ctx, parseU32(args[0], "order id"))
		if err != nil {
			fatalf("ship: %v", err)
		}
		fmt.Printf("order %d shipped, total %.3f\n", shipment.OrderID, shipment.Total)

	case "cancel":
		if len(args) != 1 {
			fatalf("usage: cancel <order-id>")
		}
		id := parseU32(args[0], "order id")
		if err := client.CancelOrder(ctx, id); err != nil {
			fatalf("cancel: %v", err)
		}
		fmt.Printf("order %d cancelled\n", id)

	case "shipments":
		records, err := client.Shipments(ctx, time.Time{}, time.Time{})
		if err != nil {
			fatalf("shipments: %v", err)
		}
		for _, r := range records {
			fmt.Printf("%s order %d: %s x%.3f = %.3f\n",
				r.ShippedAt.Format(time.RFC3339), r.OrderID, r.Name, r.Amount, r.Price)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

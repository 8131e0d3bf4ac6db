package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yungbote/sitebuilder-backend/internal/app"
	"github.com/yungbote/sitebuilder-backend/internal/data/db"
	"github.com/yungbote/sitebuilder-backend/internal/data/repos"
	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/normalization"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

type emailList []string

func (l *emailList) String() string { return strings.Join(*l, ",") }
func (l *emailList) Set(v string) error {
	v = normalization.ParseInputString(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

func main() {
	var emails emailList
	var plan string
	var dryRun bool
	flag.Var(&emails, "email", "account email to update (repeatable)")
	flag.StringVar(&plan, "plan", types.PlanPremium, "plan to assign: free or premium")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned changes without writing")
	flag.Parse()

	plan = strings.ToLower(strings.TrimSpace(plan))
	if plan != types.PlanFree && plan != types.PlanPremium {
		fmt.Printf("unknown plan %q\n", plan)
		os.Exit(2)
	}
	if len(emails) == 0 {
		fmt.Println("no -email values provided")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbService, err := db.Open(log, cfg.DB())
	if err != nil {
		fmt.Printf("open database: %v\n", err)
		os.Exit(1)
	}
	defer dbService.Close()

	ctx := context.Background()
	userRepo := repos.NewUserRepo(dbService.DB(), log)
	users, err := userRepo.GetByEmails(ctx, nil, emails)
	if err != nil {
		fmt.Printf("load users: %v\n", err)
		os.Exit(1)
	}

	found := make(map[string]bool, len(users))
	for _, u := range users {
		found[u.Email] = true
		if u.Plan == plan {
			fmt.Printf("%s already on %s\n", u.Email, plan)
			continue
		}
		if dryRun {
			fmt.Printf("[dry-run] %s: %s -> %s\n", u.Email, u.Plan, plan)
			continue
		}
		if err := userRepo.UpdatePlan(ctx, nil, u.ID, plan); err != nil {
			fmt.Printf("update %s: %v\n", u.Email, err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s -> %s\n", u.Email, u.Plan, plan)
	}
	for _, e := range emails {
		if !found[e] {
			fmt.Printf("%s: no such account\n", e)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/joho/godotenv"

	"jizhang/internal/backend"
	"jizhang/internal/config"
	"jizhang/internal/core"
	"jizhang/internal/daterange"
	"jizhang/internal/export"
	"jizhang/internal/filter"
	applog "jizhang/internal/log"
	"jizhang/internal/store"
)

var (
	cmdList      = kingpin.Command("list", "List records grouped by day")
	listRange    = cmdList.Flag("range", "Preset range: today|week|month|twoweeks|year|all").Default("all").String()
	listFrom     = cmdList.Flag("from", "Custom range start (2006-01-02)").String()
	listTo       = cmdList.Flag("to", "Custom range end (2006-01-02)").String()
	listType     = cmdList.Flag("type", "Record type: all|expense|income").Default(filter.All).String()
	listCategory = cmdList.Flag("category", "Category id, or 'all'").Default(filter.All).String()

	cmdAdd    = kingpin.Command("add", "Add a record")
	addType   = cmdAdd.Flag("type", "Record type: expense|income").Required().String()
	addAmount = cmdAdd.Flag("amount", "Amount").Required().Float64()
	addCat    = cmdAdd.Flag("category", "Category id").Required().String()
	addNote   = cmdAdd.Flag("note", "Free-text note").String()
	addDate   = cmdAdd.Flag("date", "Transaction date (RFC 3339 or 2006-01-02); defaults to now").String()

	cmdDelete = kingpin.Command("delete", "Delete a record by id")
	deleteID  = cmdDelete.Arg("id", "Record id").Required().String()

	cmdStats  = kingpin.Command("stats", "Per-category totals and percentages")
	statsType = cmdStats.Flag("type", "Record type: expense|income").Default(string(core.Expense)).String()

	cmdCategory      = kingpin.Command("category", "Manage categories")
	cmdCategoryList  = cmdCategory.Command("list", "List categories")
	cmdCategoryAdd   = cmdCategory.Command("add", "Add a custom category")
	categoryAddType  = cmdCategoryAdd.Flag("type", "Record type: expense|income").Required().String()
	categoryAddLabel = cmdCategoryAdd.Flag("label", "Display label").Required().String()
	categoryAddIcon  = cmdCategoryAdd.Flag("icon", "Icon name").Default("tag").String()
	cmdCategoryDel   = cmdCategory.Command("delete", "Delete a custom category")
	categoryDelType  = cmdCategoryDel.Flag("type", "Record type: expense|income").Required().String()
	categoryDelID    = cmdCategoryDel.Arg("id", "Category id").Required().String()

	cmdExport   = kingpin.Command("export", "Export records to an xlsx statement")
	exportOut   = cmdExport.Flag("out", "Output file").Default("jizhang.xlsx").String()
	exportRange = cmdExport.Flag("range", "Preset range: today|week|month|twoweeks|year|all").Default("all").String()
	exportType  = cmdExport.Flag("type", "Record type: all|expense|income").Default(filter.All).String()
)

func main() {
	_ = godotenv.Load()
	cmd := kingpin.Parse()

	cfg := config.Load()
	logger := applog.New(applog.Config{Level: cfg.SlogLevel()})
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	kvStore, cleanup, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to open backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	ctx := context.Background()
	st := store.New(kvStore, logger, store.WithKeys(cfg.RecordsKey, cfg.CategoriesKey))
	st.Load(ctx)

	switch cmd {
	case cmdList.FullCommand():
		err = runList(st)
	case cmdAdd.FullCommand():
		err = runAdd(ctx, st)
	case cmdDelete.FullCommand():
		err = st.DeleteRecord(ctx, *deleteID)
	case cmdStats.FullCommand():
		err = runStats(st)
	case cmdCategoryList.FullCommand():
		runCategoryList(st)
	case cmdCategoryAdd.FullCommand():
		err = runCategoryAdd(ctx, st)
	case cmdCategoryDel.FullCommand():
		err = st.DeleteCategory(ctx, core.RecordType(*categoryDelType), *categoryDelID)
	case cmdExport.FullCommand():
		err = runExport(st, logger)
	}
	if err != nil {
		logger.Error("command failed", applog.FieldError, err)
		os.Exit(1)
	}
}

// resolveRange turns the --range/--from/--to flags into a filter range.
// An explicit custom range wins over a preset.
func resolveRange(preset, from, to string, now time.Time) (*daterange.Range, error) {
	if from != "" || to != "" {
		if from == "" || to == "" {
			return nil, fmt.Errorf("--from and --to must be given together")
		}
		start, err := core.ParseDate(from)
		if err != nil {
			return nil, err
		}
		end, err := core.ParseDate(to)
		if err != nil {
			return nil, err
		}
		r := daterange.NewCustom(start, end)
		return &r, nil
	}

	p := daterange.Preset(preset)
	if !p.Valid() {
		return nil, fmt.Errorf("unknown range preset %q", preset)
	}
	r := daterange.Resolve(p, now)
	return &r, nil
}

func runList(st *store.Store) error {
	now := time.Now()
	r, err := resolveRange(*listRange, *listFrom, *listTo, now)
	if err != nil {
		return err
	}
	spec := filter.Spec{DateRange: r, Type: *listType, Category: *listCategory}

	records := filter.Apply(st.Records(), spec)
	cats := st.Categories()
	totals := core.CalculateTotals(records)

	fmt.Printf("%s  收入 %s  支出 %s  结余 %s\n\n",
		r.Label(now),
		core.FormatMoney(totals.Income),
		core.FormatMoney(totals.Expense),
		core.FormatMoney(totals.Balance))

	groups := core.GroupRecordsByDate(records)
	days := make([]string, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	for _, day := range days {
		group := groups[day]
		dayTotals := core.CalculateTotals(group)
		fmt.Printf("%s  (收 %s / 支 %s)\n",
			core.FormatDate(group[0].Date.UTC()),
			core.FormatMoney(dayTotals.Income),
			core.FormatMoney(dayTotals.Expense))
		for _, rec := range group {
			sign := "-"
			if rec.Type == core.Income {
				sign = "+"
			}
			cat := cats.Resolve(rec.Type, rec.Category)
			fmt.Printf("  %-12s %s%s", cat.Label, sign, core.FormatMoney(rec.Amount))
			if rec.Note != "" {
				fmt.Printf("  %s", rec.Note)
			}
			fmt.Printf("  [%s]\n", rec.ID)
		}
	}
	return nil
}

func runAdd(ctx context.Context, st *store.Store) error {
	date := time.Now()
	if *addDate != "" {
		var err error
		date, err = core.ParseDate(*addDate)
		if err != nil {
			return err
		}
	}

	rec, err := st.SaveRecord(ctx, core.Record{
		Type:     core.RecordType(*addType),
		Amount:   *addAmount,
		Category: *addCat,
		Note:     *addNote,
		Date:     date,
	})
	if err != nil {
		return err
	}
	fmt.Printf("已记录 %s\n", rec.ID)
	return nil
}

func runStats(st *store.Store) error {
	t := core.RecordType(*statsType)
	if !t.Valid() {
		return core.ErrInvalidType
	}

	records := st.Records()
	totals := core.CalculateTotals(records)
	total := totals.Expense
	title := "总支出"
	if t == core.Income {
		total = totals.Income
		title = "总收入"
	}
	fmt.Printf("%s: %s\n\n", title, core.FormatMoney(total))

	for _, slice := range core.Breakdown(records, st.Categories(), t) {
		fmt.Printf("%-12s %s (%.1f%%)\n",
			slice.Category.Label, core.FormatMoney(slice.Amount), slice.Percent)
	}
	return nil
}

func runCategoryList(st *store.Store) {
	cats := st.Categories()
	fmt.Println("支出:")
	for _, c := range cats.Expense {
		printCategory(c)
	}
	fmt.Println("收入:")
	for _, c := range cats.Income {
		printCategory(c)
	}
}

func printCategory(c core.Category) {
	marker := ""
	if c.Deletable() {
		marker = " (自定义)"
	}
	fmt.Printf("  %-16s %s [%s]%s\n", c.ID, c.Label, c.Icon, marker)
}

func runCategoryAdd(ctx context.Context, st *store.Store) error {
	c, err := st.AddCategory(ctx, core.RecordType(*categoryAddType), core.Category{
		Label: *categoryAddLabel,
		Icon:  *categoryAddIcon,
	})
	if err != nil {
		return err
	}
	fmt.Printf("已添加分类 %s\n", c.ID)
	return nil
}

func runExport(st *store.Store, logger *applog.Logger) error {
	r, err := resolveRange(*exportRange, "", "", time.Now())
	if err != nil {
		return err
	}
	spec := filter.Spec{DateRange: r, Type: *exportType, Category: filter.All}
	records := filter.Apply(st.Records(), spec)

	raw, err := export.RecordsXLSX(records, st.Categories())
	if err != nil {
		return err
	}
	if err := os.WriteFile(*exportOut, raw, 0644); err != nil {
		return fmt.Errorf("write %s: %w", *exportOut, err)
	}

	logger.WithComponent(applog.ComponentExport).Info("statement exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldPath, *exportOut,
		applog.FieldCount, len(records))
	return nil
}

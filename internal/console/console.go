package console

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/user/honey-market/internal/interfaces"
	"github.com/user/honey-market/internal/report"
	"github.com/user/honey-market/internal/types"
	"go.uber.org/zap"
)

// Interpreter turns one line of player text into a game command and a
// printable reply
type Interpreter struct {
	game   interfaces.GameManager
	logger *zap.Logger
}

// NewInterpreter creates a text interpreter in front of gm
func NewInterpreter(gm interfaces.GameManager, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{game: gm, logger: logger}
}

// Process handles one command line. Errors are infrastructure failures only;
// everything the player typed wrong is answered in the reply.
func (in *Interpreter) Process(ctx context.Context, line string) (string, error) {
	command := cleanCommand(line)
	command = strings.TrimPrefix(command, "/")
	if command == "" {
		return "Type 'help' to see the available commands.", nil
	}

	verb, arg := command, ""
	if i := strings.IndexByte(command, ' '); i >= 0 {
		verb, arg = command[:i], strings.TrimSpace(command[i+1:])
	}
	verb = strings.ToLower(verb)

	in.logger.Debug("Processing command", zap.String("verb", verb), zap.String("arg", arg))

	switch verb {
	case "help", "?":
		return helpText(), nil
	case "status":
		return in.handleStatus(), nil
	case "region":
		return in.handleRegion(ctx, arg)
	case "districts":
		return in.handleDistricts(strings.ToLower(arg)), nil
	case "district":
		return in.handleDistrict(ctx, arg)
	case "products":
		return in.handleProducts(), nil
	case "stock":
		return in.handleStock(ctx, arg)
	case "next", "advance":
		return in.reply(in.game.Advance(ctx))
	case "choose":
		return in.reply(in.game.ChooseOption(ctx, in.resolveOption(arg)))
	case "ok", "continue":
		return in.reply(in.game.AcknowledgeFeedback(ctx))
	case "nextround":
		return in.reply(in.game.StartNextRound(ctx))
	case "reset":
		return in.reply(in.game.ResetGame(ctx))
	case "screen":
		return formatScreen(in.game.Render()), nil
	case "report", "reports":
		return in.handleReport(arg), nil
	case "leaderboard", "top":
		return in.handleLeaderboard(strings.ToLower(arg)), nil
	}

	return fmt.Sprintf("Unknown command %q. Type 'help' to see the available commands.", verb), nil
}

// cleanCommand collapses whitespace. Case is kept so arguments can be
// matched against catalog identifiers.
func cleanCommand(command string) string {
	return strings.Join(strings.Fields(command), " ")
}

func helpText() string {
	var b strings.Builder
	b.WriteString("COMMANDS\n")
	b.WriteString("status                      your round, phase and resources\n")
	b.WriteString("region <type>               residential, commercial or school_zone\n")
	b.WriteString("districts [type]            districts and their rent\n")
	b.WriteString("district <name>             rent a district\n")
	b.WriteString("products                    product prices\n")
	b.WriteString("stock <id>=<qty> ...        buy inventory for the round\n")
	b.WriteString("next                        continue to the next stage\n")
	b.WriteString("choose <option>             answer the current event\n")
	b.WriteString("ok                          close the feedback screen\n")
	b.WriteString("nextround                   start the next round\n")
	b.WriteString("report [round]              financial reports\n")
	b.WriteString("leaderboard [metric]        honey, satisfaction, reputation or earnings\n")
	b.WriteString("reset                       start over\n")
	return b.String()
}

func (in *Interpreter) handleStatus() string {
	s := in.game.GetStatus()
	var b strings.Builder
	fmt.Fprintf(&b, "ROUND %d (%s)\n", s.Round, s.Phase)
	fmt.Fprintf(&b, "Honey: %s\n", humanize.Comma(int64(s.Resources.Honey)))
	fmt.Fprintf(&b, "Satisfaction: %d/100\n", s.Resources.Satisfaction)
	fmt.Fprintf(&b, "Reputation: %d/100\n", s.Resources.Reputation)
	if s.Selection.Region != "" {
		fmt.Fprintf(&b, "Region: %s\n", s.Selection.Region)
	}
	if s.Selection.District != "" {
		fmt.Fprintf(&b, "District: %s (x%.2f)\n", s.Selection.District, s.Selection.Coefficient)
	}
	if s.HasStocked {
		fmt.Fprintf(&b, "Events: %d/%d\n", s.EventsCompleted, s.TotalEvents)
	}
	if len(s.Inventory) > 0 {
		ids := make([]string, 0, len(s.Inventory))
		for id := range s.Inventory {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		b.WriteString("Inventory:")
		for _, id := range ids {
			fmt.Fprintf(&b, " %s=%s", id, humanize.Comma(int64(s.Inventory[id])))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (in *Interpreter) handleRegion(ctx context.Context, arg string) (string, error) {
	if arg == "" {
		return "Which region? Try: region residential, region commercial or region school_zone", nil
	}
	region := strings.ReplaceAll(strings.ToLower(arg), " ", "_")
	return in.reply(in.game.SelectRegion(ctx, types.RegionType(region)))
}

func (in *Interpreter) handleDistricts(arg string) string {
	region := types.RegionType(arg)
	if region == "" {
		region = in.game.GetStatus().Selection.Region
	}
	if region == "" {
		return "Choose a region first, or name one: districts commercial"
	}
	offers, ok := in.game.GetDistricts(region)
	if !ok {
		return fmt.Sprintf("Unknown region %q.", region)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DISTRICTS IN %s\n", strings.ToUpper(string(region)))
	for _, d := range offers {
		fmt.Fprintf(&b, "%s  x%.2f  rent %s\n", d.Name, d.Coefficient, humanize.Comma(int64(d.Rent)))
	}
	return b.String()
}

// handleDistrict matches the typed name against the region's districts
// ignoring case
func (in *Interpreter) handleDistrict(ctx context.Context, arg string) (string, error) {
	if arg == "" {
		return "Which district? Type 'districts' to list them.", nil
	}
	name := arg
	if region := in.game.GetStatus().Selection.Region; region != "" {
		offers, _ := in.game.GetDistricts(region)
		for _, d := range offers {
			if strings.EqualFold(d.Name, arg) {
				name = d.Name
				break
			}
		}
	}
	return in.reply(in.game.SelectDistrict(ctx, name))
}

func (in *Interpreter) handleProducts() string {
	var b strings.Builder
	b.WriteString("PRODUCTS\n")
	for _, p := range in.game.GetProducts() {
		fmt.Fprintf(&b, "%s  cost %d  price %d\n", p.ID, p.UnitCost, p.UnitPrice)
	}
	return b.String()
}

func (in *Interpreter) handleStock(ctx context.Context, arg string) (string, error) {
	quantities, err := parseQuantities(arg)
	if err != nil {
		return fmt.Sprintf("Could not read the quantities: %v. Write them as product=amount.", err), nil
	}
	return in.reply(in.game.Stock(ctx, in.resolveProducts(quantities)))
}

// resolveProducts maps typed product ids onto catalog ids ignoring case.
// Unknown ids are passed through for the game to reject.
func (in *Interpreter) resolveProducts(quantities map[string]int) map[string]int {
	products := in.game.GetProducts()
	resolved := make(map[string]int, len(quantities))
	for id, qty := range quantities {
		for _, p := range products {
			if strings.EqualFold(p.ID, id) {
				id = p.ID
				break
			}
		}
		resolved[id] += qty
	}
	return resolved
}

// resolveOption maps a typed option id onto the current event's options
// ignoring case
func (in *Interpreter) resolveOption(arg string) string {
	ev, ok := in.game.GetCurrentEvent()
	if !ok {
		return arg
	}
	for _, opt := range ev.Options {
		if strings.EqualFold(opt.ID, arg) {
			return opt.ID
		}
	}
	return arg
}

// parseQuantities reads "water=100 bread=200". A bare "stock" buys nothing.
func parseQuantities(arg string) (map[string]int, error) {
	quantities := make(map[string]int)
	for _, field := range strings.Fields(arg) {
		id, raw, found := strings.Cut(field, "=")
		if !found || id == "" {
			return nil, fmt.Errorf("missing '=' in %q", field)
		}
		qty, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		quantities[id] += qty
	}
	return quantities, nil
}

func (in *Interpreter) handleReport(arg string) string {
	if arg != "" {
		round, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Sprintf("%q is not a round number.", arg)
		}
		rep, ok := in.game.GetReport(round)
		if !ok {
			return fmt.Sprintf("No report for round %d yet.", round)
		}
		return formatReport(rep)
	}

	reports := in.game.GetReports()
	if len(reports) == 0 {
		return "No reports yet. Finish a round first."
	}
	var b strings.Builder
	for _, rep := range reports {
		b.WriteString(report.Summary(rep))
		b.WriteString("\n")
	}
	return b.String()
}

func (in *Interpreter) handleLeaderboard(metric string) string {
	entries, err := in.game.GetLeaderboard(metric)
	if err != nil {
		return fmt.Sprintf("Unknown metric %q. Try honey, satisfaction, reputation or earnings.", metric)
	}
	if metric == "" {
		metric = "honey"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "LEADERBOARD (%s)\n", metric)
	for _, e := range entries {
		marker := " "
		if !e.Virtual {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%2d. %-16s %s\n", marker, e.Rank, e.Name, humanize.Comma(int64(e.Value)))
	}
	return b.String()
}

// reply formats a command result together with the screen it left behind
func (in *Interpreter) reply(r *types.CommandResult, err error) (string, error) {
	if err != nil {
		in.logger.Error("Command failed", zap.Error(err))
		return "", err
	}

	var b strings.Builder
	switch r.Status {
	case types.StatusRejected:
		b.WriteString("Not possible: ")
	case types.StatusWarning:
		b.WriteString("Nothing to do: ")
	}
	b.WriteString(r.Message)
	b.WriteString("\n")

	if r.Code == types.CodeInsufficientFunds {
		fmt.Fprintf(&b, "Needed %s, you have %s\n",
			humanize.Comma(int64(r.Required)), humanize.Comma(int64(r.Available)))
	}
	if r.Screen != nil && r.Screen.EventID != "" {
		b.WriteString("\n")
		b.WriteString(formatScreen(*r.Screen))
	}
	if r.Report != nil {
		b.WriteString("\n")
		b.WriteString(formatReport(*r.Report))
	}
	return b.String(), nil
}

func formatScreen(s types.Screen) string {
	if s.EventID == "" {
		return fmt.Sprintf("Round %d: %s\n", s.Round, s.Phase)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "EVENT %d/%d: %s\n", s.EventNumber, s.TotalEvents, s.Title)
	fmt.Fprintf(&b, "Market signal: %s (x%.1f)\n", s.Signal, s.SignalCoefficient)
	if s.Story != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Story)
	}
	if len(s.Options) > 0 && s.SelectedOptionID == "" {
		b.WriteString("\n")
		for _, opt := range s.Options {
			fmt.Fprintf(&b, "%s) %s\n", opt.ID, opt.Text)
		}
	}
	if s.Feedback != "" {
		fmt.Fprintf(&b, "\nYou chose %s. %s\n", s.SelectedOptionID, s.Feedback)
	}
	if s.Outcome != nil {
		fmt.Fprintf(&b, "Sold %s units for %s honey\n",
			humanize.Comma(int64(s.Outcome.SalesVolume)), humanize.Comma(int64(s.Outcome.SalesRevenue)))
	}

	switch s.Stage {
	case types.StageSignal, types.StageStory:
		b.WriteString("\nType 'next' to continue.\n")
	case types.StageChoice:
		b.WriteString("\nType 'choose <option>'.\n")
	case types.StageFeedback:
		b.WriteString("\nType 'ok' to continue.\n")
	}
	return b.String()
}

func formatReport(r types.FinancialReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "REPORT ROUND %d: %s, %s\n", r.RoundNumber, r.District, r.RegionType)
	fmt.Fprintf(&b, "Revenue: %s\n", humanize.Comma(int64(r.TotalRevenue)))
	fmt.Fprintf(&b, "Rent: %s\n", humanize.Comma(int64(r.RentCost)))
	fmt.Fprintf(&b, "Stock: %s\n", humanize.Comma(int64(r.StockCost)))
	fmt.Fprintf(&b, "Cost: %s\n", humanize.Comma(int64(r.TotalCost)))
	fmt.Fprintf(&b, "Net profit: %s\n", humanize.Comma(int64(r.NetProfit)))
	fmt.Fprintf(&b, "Satisfaction %+d, reputation %+d\n", r.SatisfactionChange, r.ReputationChange)
	return b.String()
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuifit/internal/analytics"
	"github.com/verte-zerg/tuifit/internal/app"
	"github.com/verte-zerg/tuifit/internal/config"
	"github.com/verte-zerg/tuifit/internal/ids"
	"github.com/verte-zerg/tuifit/internal/model"
	"github.com/verte-zerg/tuifit/internal/registry"
	"github.com/verte-zerg/tuifit/internal/statsui"
)

var (
	exerciseCustomOnly   bool
	exerciseGroup        string
	exerciseName         string
	exerciseMuscle       string
	exerciseEquipment    string
	exerciseInstructions string

	routineName        string
	routineDescription string
	routineDuration    string
	routineDifficulty  string
	routineColor       string

	reportPDF string
)

var errNotFound = errors.New("not found")

const detailWidth = 72

func newExercisesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List and manage exercises",
		Args:  cobra.NoArgs,
		RunE:  runExercisesListCmd,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List exercises",
		Args:  cobra.NoArgs,
		RunE:  runExercisesListCmd,
	}
	list.Flags().BoolVar(&exerciseCustomOnly, "custom", false, "only list custom exercises")
	list.Flags().StringVar(&exerciseGroup, "muscle", registry.AllGroups, "muscle group filter (\"All\" for every group)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an exercise's details",
		Args:  cobra.ExactArgs(1),
		RunE:  runExercisesShowCmd,
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a custom exercise",
		Args:  cobra.NoArgs,
		RunE:  runExercisesAddCmd,
	}
	add.Flags().StringVar(&exerciseName, "name", "", "exercise name (required)")
	add.Flags().StringVar(&exerciseMuscle, "muscle", app.DefaultMuscleGroup, "muscle group")
	add.Flags().StringVar(&exerciseEquipment, "equipment", app.DefaultEquipment, "equipment")
	add.Flags().StringVar(&exerciseInstructions, "instructions", "", "how to perform it")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom exercise",
		Args:  cobra.ExactArgs(1),
		RunE:  runExercisesRemoveCmd,
	}

	cmd.AddCommand(list, show, add, remove)
	return cmd
}

func runExercisesListCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	group := resolveMuscleGroup(env.state.Exercises.MuscleGroups(), exerciseGroup)
	exercises := env.state.Exercises.ByMuscleGroup(group)
	if exerciseCustomOnly {
		exercises = onlyCustom(exercises)
	}
	if len(exercises) == 0 {
		return writeLine(cmd.OutOrStdout(), "No exercises found.")
	}
	rows := make([][]string, 0, len(exercises))
	for _, ex := range exercises {
		rows = append(rows, []string{ex.ID, ex.Name, ex.MuscleGroup, ex.Equipment})
	}
	return writeTable(cmd.OutOrStdout(), []string{"ID", "Name", "Muscle", "Equipment"}, rows)
}

// resolveMuscleGroup matches group against the known groups ignoring case. An
// unknown group is returned as given and matches nothing.
func resolveMuscleGroup(groups []string, group string) string {
	group = strings.TrimSpace(group)
	if group == "" {
		return registry.AllGroups
	}
	for _, g := range groups {
		if strings.EqualFold(g, group) {
			return g
		}
	}
	return group
}

func onlyCustom(exercises []model.Exercise) []model.Exercise {
	out := make([]model.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if strings.HasPrefix(ex.ID, ids.ExercisePrefix) {
			out = append(out, ex)
		}
	}
	return out
}

func runExercisesShowCmd(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	out := cmd.OutOrStdout()
	ex, ok := env.state.Exercises.Get(args[0])
	if !ok {
		return writeLine(out, fmt.Sprintf("Exercise %q not found.", args[0]))
	}
	return writeLine(out, exerciseDetail(ex, detailWidth))
}

func exerciseDetail(ex model.Exercise, width int) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(ex.Name),
		ex.MuscleGroup + " · " + ex.Equipment,
		"",
		"Instructions",
	}
	if strings.TrimSpace(ex.Instructions) == "" {
		return strings.Join(append(lines, "No instructions."), "\n")
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(ex.Instructions)
	for _, l := range strings.Split(wrapped, "\n") {
		lines = append(lines, strings.TrimRight(l, " "))
	}
	return strings.Join(lines, "\n")
}

func runExercisesAddCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	ex, err := env.state.AddExercise(app.ExerciseInput{
		Name:         exerciseName,
		MuscleGroup:  exerciseMuscle,
		Equipment:    exerciseEquipment,
		Instructions: exerciseInstructions,
	})
	if err != nil {
		return fmt.Errorf("failed to add exercise: %w", err)
	}
	return writeLine(cmd.OutOrStdout(), ex.ID)
}

func runExercisesRemoveCmd(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	id := args[0]
	if !strings.HasPrefix(id, ids.ExercisePrefix) {
		return fmt.Errorf("only custom exercises can be removed: %q", id)
	}
	if !env.state.Exercises.RemoveCustom(id) {
		return fmt.Errorf("exercise %q: %w", id, errNotFound)
	}
	return nil
}

func newRoutinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routines",
		Short: "List and manage routines",
		Args:  cobra.NoArgs,
		RunE:  runRoutinesListCmd,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List routines",
		Args:  cobra.NoArgs,
		RunE:  runRoutinesListCmd,
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a routine's exercises",
		Args:  cobra.ExactArgs(1),
		RunE:  runRoutinesShowCmd,
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a custom routine",
		Args:  cobra.NoArgs,
		RunE:  runRoutinesAddCmd,
	}
	add.Flags().StringVar(&routineName, "name", "", "routine name (required)")
	add.Flags().StringVar(&routineDescription, "description", "", "short description")
	add.Flags().StringVar(&routineDuration, "duration", app.DefaultRoutineDuration, "duration label")
	add.Flags().StringVar(&routineDifficulty, "difficulty", string(model.Beginner), "beginner, intermediate or advanced")
	add.Flags().StringVar(&routineColor, "color", "", "accent color (hex)")

	reset := &cobra.Command{
		Use:   "reset <id>",
		Short: "Restore a routine's default exercises",
		Args:  cobra.ExactArgs(1),
		RunE:  runRoutinesResetCmd,
	}

	cmd.AddCommand(list, show, add, reset)
	return cmd
}

func runRoutinesListCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	routines := env.state.Routines.All()
	rows := make([][]string, 0, len(routines))
	for _, rt := range routines {
		count := len(env.state.Routines.EffectiveExercises(rt.ID, rt.Exercises))
		edited := ""
		if env.state.Routines.HasOverride(rt.ID) {
			edited = "yes"
		}
		rows = append(rows, []string{rt.ID, rt.Name, string(rt.Difficulty), rt.Duration, strconv.Itoa(count), edited})
	}
	return writeTable(cmd.OutOrStdout(), []string{"ID", "Name", "Difficulty", "Duration", "Exercises", "Edited"}, rows)
}

func runRoutinesShowCmd(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	engine, err := env.state.NewSession(args[0])
	if err != nil {
		return err
	}
	rt := engine.Routine()
	out := cmd.OutOrStdout()
	header := fmt.Sprintf("%s (%s, %s)\n%s", rt.Name, rt.Difficulty, rt.Duration, rt.Description)
	if err := writeLine(out, header); err != nil {
		return err
	}
	slots := engine.Slots()
	if len(slots) == 0 {
		return writeLine(out, "No exercises.")
	}
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		name := s.Exercise.Name
		if !s.Resolved {
			name = "unknown (" + s.Item.ExerciseID + ")"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index + 1),
			name,
			strconv.Itoa(s.Item.Sets),
			s.Item.Reps,
			strconv.Itoa(s.Rest) + "s",
		})
	}
	return writeTable(out, []string{"#", "Exercise", "Sets", "Reps", "Rest"}, rows)
}

func runRoutinesAddCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	rt, err := env.state.AddRoutine(app.RoutineInput{
		Name:        routineName,
		Description: routineDescription,
		Duration:    routineDuration,
		Difficulty:  model.Difficulty(strings.ToLower(strings.TrimSpace(routineDifficulty))),
		Color:       routineColor,
	})
	if err != nil {
		return fmt.Errorf("failed to add routine: %w", err)
	}
	return writeLine(cmd.OutOrStdout(), rt.ID)
}

func runRoutinesResetCmd(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	id := args[0]
	if _, ok := env.state.Routines.Get(id); !ok {
		return fmt.Errorf("%w: %q", app.ErrUnknownRoutine, id)
	}
	if !env.state.Routines.ResetEffectiveExercises(id) {
		return writeLine(cmd.OutOrStdout(), "Routine already uses its default exercises.")
	}
	return nil
}

// addStatsFlags registers the history filters. They are read back through
// statsConfigFromFlags rather than bound to shared variables because stats, log
// and report use different defaults.
func addStatsFlags(cmd *cobra.Command, defaultDays int) {
	cmd.Flags().String("since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().Int("last", 0, "limit to the last N workouts")
	cmd.Flags().Int("days", defaultDays, "limit to the last N days (0 for all)")
	cmd.Flags().String("routine", "", "routine id filter")
}

func statsConfigFromFlags(cmd *cobra.Command) (model.StatsConfig, error) {
	flags := cmd.Flags()
	since, err := flags.GetString("since")
	if err != nil {
		return model.StatsConfig{}, err
	}
	last, err := flags.GetInt("last")
	if err != nil {
		return model.StatsConfig{}, err
	}
	days, err := flags.GetInt("days")
	if err != nil {
		return model.StatsConfig{}, err
	}
	routine, err := flags.GetString("routine")
	if err != nil {
		return model.StatsConfig{}, err
	}

	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if days < 0 {
		return model.StatsConfig{}, fmt.Errorf("--days must be >= 0")
	}
	return model.StatsConfig{
		Since:   sinceTime,
		Last:    last,
		Days:    days,
		Routine: strings.TrimSpace(routine),
	}, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addStatsFlags(cmd, analytics.DefaultWindowDays)
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	env, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer env.close()

	program := tea.NewProgram(statsui.NewModel(env.state.Logs, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print workout history",
		Args:  cobra.NoArgs,
		RunE:  runLogCmd,
	}
	addStatsFlags(cmd, 0)
	return cmd
}

func runLogCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	now := time.Now()
	logs := analytics.Filter(env.state.Logs.All(), cfg, now)
	return analytics.RenderHistory(cmd.OutOrStdout(), logs, now)
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a progress report or export it as PDF",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	addStatsFlags(cmd, analytics.DefaultWindowDays)
	cmd.Flags().StringVar(&reportPDF, "pdf", "", "write the report as PDF to this path (\"-\" for the default path)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	report := env.state.Report(cfg, time.Now())
	if reportPDF == "" {
		return analytics.RenderText(cmd.OutOrStdout(), report)
	}
	path := reportPDF
	if path == "-" {
		path = config.DefaultReportPath()
	}
	if err := analytics.WritePDFFile(path, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	env.log.WithField("path", path).Info("report written")
	return writeLine(cmd.OutOrStdout(), path)
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(2)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})
	return writeLine(w, t.String())
}

func writeLine(w io.Writer, s string) error {
	if _, err := fmt.Fprintln(w, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

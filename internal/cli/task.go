package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/focusflow/internal/store"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage scheduled tasks",
}

var (
	taskCategory string
	taskDate     string
	taskStart    string
	taskEnd      string
	taskJSON     bool
	taskListDate string
)

// Flags of task update, kept apart so their empty defaults do not
// clobber the defaults of task add.
var (
	updTitle     string
	updCategory  string
	updDate      string
	updStart     string
	updEnd       string
	updCompleted bool
)

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long: `Add a to-do, event or reminder for the current user.

Examples:
  focusflow task add "Write report" --start 09:00 --end 10:30
  focusflow task add "Standup" --category Event --date 2024-03-08 --start 09:30 --end 09:45`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := store.ParseTaskCategory(taskCategory)
		if err != nil {
			return err
		}
		date := taskDate
		if date == "" {
			date = time.Now().Format(store.DateLayout)
		}

		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		t, err := p.AddTask(store.NewTask{
			Title:     args[0],
			Category:  category,
			Date:      date,
			StartTime: taskStart,
			EndTime:   taskEnd,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s %q on %s (%s)\n", t.Category, t.Title, t.Date, t.ID)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		tasks, err := p.Tasks(taskListDate)
		if err != nil {
			return err
		}
		if taskJSON {
			return printJSON(tasks)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		for _, t := range tasks {
			fmt.Printf("%s %s %s-%s  %-8s  %-40s %s\n", checkbox(t.Completed), t.Date,
				t.StartTime, t.EndTime, t.Category, truncate(t.Title, 40), t.ID)
		}
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a task",
	Long: `Change only the fields whose flags are given; everything else is left
as it is.

Example:
  focusflow task update 3f2c... --title "Ship report" --end 11:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := taskChanges(cmd)
		if err != nil {
			return err
		}

		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		t, earned, err := p.UpdateTask(args[0], c)
		if err := unlockErr(err); err != nil {
			return err
		}
		fmt.Printf("Updated %q (%s)\n", t.Title, t.ID)
		printUnlocks(earned)
		return nil
	},
}

// taskChanges builds a change-set from the flags that were set.
func taskChanges(cmd *cobra.Command) (store.TaskChanges, error) {
	var c store.TaskChanges
	flags := cmd.Flags()
	if flags.Changed("title") {
		c.Title = &updTitle
	}
	if flags.Changed("category") {
		category, err := store.ParseTaskCategory(updCategory)
		if err != nil {
			return c, err
		}
		c.Category = &category
	}
	if flags.Changed("date") {
		c.Date = &updDate
	}
	if flags.Changed("start") {
		c.StartTime = &updStart
	}
	if flags.Changed("end") {
		c.EndTime = &updEnd
	}
	if flags.Changed("completed") {
		c.Completed = &updCompleted
	}
	return c, nil
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a task done or not done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		t, earned, err := p.ToggleTask(args[0])
		if err := unlockErr(err); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", checkbox(t.Completed), t.Title)
		printUnlocks(earned)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := p.DeleteTask(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted task %s\n", args[0])
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskCategory, "category", "To Do", "To Do, Event or Reminder")
	taskAddCmd.Flags().StringVar(&taskDate, "date", "", "date, YYYY-MM-DD (default today)")
	taskAddCmd.Flags().StringVar(&taskStart, "start", "09:00", "start time, HH:MM")
	taskAddCmd.Flags().StringVar(&taskEnd, "end", "10:00", "end time, HH:MM")

	taskListCmd.Flags().StringVar(&taskListDate, "date", "", "only tasks on this date")
	taskListCmd.Flags().BoolVar(&taskJSON, "json", false, "output as JSON")

	taskUpdateCmd.Flags().StringVar(&updTitle, "title", "", "new title")
	taskUpdateCmd.Flags().StringVar(&updCategory, "category", "", "new category")
	taskUpdateCmd.Flags().StringVar(&updDate, "date", "", "new date")
	taskUpdateCmd.Flags().StringVar(&updStart, "start", "", "new start time")
	taskUpdateCmd.Flags().StringVar(&updEnd, "end", "", "new end time")
	taskUpdateCmd.Flags().BoolVar(&updCompleted, "completed", false, "completed flag")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskToggleCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

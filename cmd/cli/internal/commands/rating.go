package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/staffrate/staffrate/internal/api"
	"github.com/staffrate/staffrate/internal/resource"
)

type RatingCmd struct {
	List        RatingListCmd        `cmd:"" help:"List all ratings"`
	ForEmployee RatingForEmployeeCmd `cmd:"" name:"for-employee" help:"List ratings for one employee"`
	Submit      RatingSubmitCmd      `cmd:"" help:"Submit a customer rating"`
	Update      RatingUpdateCmd      `cmd:"" help:"Update a rating"`
	Delete      RatingDeleteCmd      `cmd:"" help:"Delete a rating"`
	Summary     RatingSummaryCmd     `cmd:"" help:"Show the average and distribution"`
}

type RatingListCmd struct{}

func (r *RatingListCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	ratings, err := c.ratings.List(ctx)
	if err != nil {
		return err
	}

	printRatings(ratings)

	return nil
}

type RatingForEmployeeCmd struct {
	EmployeeID string `arg:"" help:"Server id of the employee"`
}

func (r *RatingForEmployeeCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	ratings, err := c.ratings.ForEmployee(ctx, r.EmployeeID)
	if err != nil {
		return err
	}

	printRatings(ratings)
	fmt.Printf("\nAverage: %.1f (%d reviews)\n", c.ratings.Average(nil), len(ratings))

	return nil
}

type RatingSubmitCmd struct {
	EmployeeID    string `arg:"" help:"Server id of the employee being rated"`
	CustomerName  string `help:"Customer name" required:""`
	CustomerEmail string `help:"Customer email" required:""`
	CustomerPhone string `help:"Customer phone"`
	Rating        int    `help:"Rating from 1 to 5" required:""`
	Feedback      string `help:"Free-form feedback"`
}

func (r *RatingSubmitCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	_, err = c.ratings.Submit(ctx, r.EmployeeID, resource.RatingPayload{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Rating:        r.Rating,
		Feedback:      r.Feedback,
	})

	return err
}

type RatingUpdateCmd struct {
	ID            string `arg:"" help:"Server id of the rating"`
	CustomerName  string `help:"Customer name" required:""`
	CustomerEmail string `help:"Customer email" required:""`
	CustomerPhone string `help:"Customer phone"`
	Rating        int    `help:"Rating from 1 to 5" required:""`
	Feedback      string `help:"Free-form feedback"`
}

func (r *RatingUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	_, err = c.ratings.Update(ctx, r.ID, resource.RatingPayload{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Rating:        r.Rating,
		Feedback:      r.Feedback,
	})

	return err
}

type RatingDeleteCmd struct {
	ID string `arg:"" help:"Server id of the rating"`
}

func (r *RatingDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	return c.ratings.Delete(ctx, r.ID)
}

type RatingSummaryCmd struct {
	EmployeeID string `help:"Limit to one employee (server id)"`
}

func (r *RatingSummaryCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	if r.EmployeeID != "" {
		if _, err := c.ratings.ForEmployee(ctx, r.EmployeeID); err != nil {
			return err
		}
	} else if _, err := c.ratings.List(ctx); err != nil {
		return err
	}

	ratings := c.ratings.Ratings()
	dist := c.ratings.Distribution()

	fmt.Printf("Average: %.1f (%d reviews)\n\n", c.ratings.Average(nil), len(ratings))
	for star := 5; star >= 1; star-- {
		fmt.Printf("%d★ %-4d %s\n", star, dist[star], strings.Repeat("█", dist[star]))
	}

	return nil
}

func printRatings(ratings []api.Rating) {
	if len(ratings) == 0 {
		fmt.Println("No ratings found.")
		return
	}

	fmt.Printf("%-26s %-22s %-22s %-6s %-8s %-30s\n",
		"ID", "Employee", "Customer", "Stars", "In Range", "Feedback")
	fmt.Println(strings.Repeat("─", 120))

	for _, rating := range ratings {
		employee := "N/A"
		if rating.Employee != nil {
			employee = rating.Employee.EmployeeName
		}

		inRange := "no"
		if rating.InRange {
			inRange = "yes"
		}

		fmt.Printf("%-26s %-22s %-22s %-6d %-8s %-30s\n",
			rating.ID,
			truncate(employee, 22),
			truncate(rating.CustomerName, 22),
			rating.Rating,
			inRange,
			truncate(rating.Feedback, 30))
	}

	fmt.Printf("\nTotal ratings: %d\n", len(ratings))
}

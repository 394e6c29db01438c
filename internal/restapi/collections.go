// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package restapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sitelift/sitelift/internal/models"
)

// Listing response wrappers. Each embeds the shared pagination block
// and the collection's nested item array, matching the platform's
// JSON shape: {"pagination": {...}, "users": {"user": [...]}}.

type usersResponse struct {
	Page  pagination `json:"pagination"`
	Users struct {
		User []models.User `json:"user"`
	} `json:"users"`
}

func (r usersResponse) page() pagination     { return r.Page }
func (r usersResponse) items() []models.User { return r.Users.User }

type groupsResponse struct {
	Page   pagination `json:"pagination"`
	Groups struct {
		Group []models.Group `json:"group"`
	} `json:"groups"`
}

func (r groupsResponse) page() pagination      { return r.Page }
func (r groupsResponse) items() []models.Group { return r.Groups.Group }

type projectsResponse struct {
	Page     pagination `json:"pagination"`
	Projects struct {
		Project []models.Project `json:"project"`
	} `json:"projects"`
}

func (r projectsResponse) page() pagination        { return r.Page }
func (r projectsResponse) items() []models.Project { return r.Projects.Project }

type datasourcesResponse struct {
	Page        pagination `json:"pagination"`
	Datasources struct {
		Datasource []models.Datasource `json:"datasource"`
	} `json:"datasources"`
}

func (r datasourcesResponse) page() pagination           { return r.Page }
func (r datasourcesResponse) items() []models.Datasource { return r.Datasources.Datasource }

type workbooksResponse struct {
	Page      pagination `json:"pagination"`
	Workbooks struct {
		Workbook []models.Workbook `json:"workbook"`
	} `json:"workbooks"`
}

func (r workbooksResponse) page() pagination         { return r.Page }
func (r workbooksResponse) items() []models.Workbook { return r.Workbooks.Workbook }

type viewsResponse struct {
	Page  pagination `json:"pagination"`
	Views struct {
		View []models.View `json:"view"`
	} `json:"views"`
}

func (r viewsResponse) page() pagination     { return r.Page }
func (r viewsResponse) items() []models.View { return r.Views.View }

type flowsResponse struct {
	Page  pagination `json:"pagination"`
	Flows struct {
		Flow []models.Flow `json:"flow"`
	} `json:"flows"`
}

func (r flowsResponse) page() pagination     { return r.Page }
func (r flowsResponse) items() []models.Flow { return r.Flows.Flow }

type customViewsResponse struct {
	Page        pagination `json:"pagination"`
	CustomViews struct {
		CustomView []models.CustomView `json:"customView"`
	} `json:"customViews"`
}

func (r customViewsResponse) page() pagination           { return r.Page }
func (r customViewsResponse) items() []models.CustomView { return r.CustomViews.CustomView }

type schedulesResponse struct {
	Page      pagination `json:"pagination"`
	Schedules struct {
		Schedule []models.Schedule `json:"schedule"`
	} `json:"schedules"`
}

func (r schedulesResponse) page() pagination         { return r.Page }
func (r schedulesResponse) items() []models.Schedule { return r.Schedules.Schedule }

type subscriptionsResponse struct {
	Page          pagination `json:"pagination"`
	Subscriptions struct {
		Subscription []models.Subscription `json:"subscription"`
	} `json:"subscriptions"`
}

func (r subscriptionsResponse) page() pagination             { return r.Page }
func (r subscriptionsResponse) items() []models.Subscription { return r.Subscriptions.Subscription }

// taskWire is the nested wrapper the tasks listing uses: each task
// entry wraps an extractRefresh element that points at either a
// workbook or a data source.
type taskWire struct {
	ExtractRefresh struct {
		ID                     string        `json:"id"`
		Priority               int           `json:"priority,string,omitempty"`
		ConsecutiveFailedCount int           `json:"consecutiveFailedCount,string,omitempty"`
		Type                   string        `json:"type"`
		Schedule               models.IDRef  `json:"schedule"`
		Datasource             *models.IDRef `json:"datasource,omitempty"`
		Workbook               *models.IDRef `json:"workbook,omitempty"`
	} `json:"extractRefresh"`
}

// toTask flattens the wire wrapper into the domain type.
func (w taskWire) toTask() models.Task {
	er := w.ExtractRefresh
	task := models.Task{
		ID:                     er.ID,
		Type:                   models.ParseRefreshType(er.Type),
		Priority:               er.Priority,
		ConsecutiveFailedCount: er.ConsecutiveFailedCount,
		Schedule:               er.Schedule,
	}
	switch {
	case er.Workbook != nil:
		task.Target = models.Target{Type: models.TargetWorkbook, ID: er.Workbook.ID, Name: er.Workbook.Name}
	case er.Datasource != nil:
		task.Target = models.Target{Type: models.TargetDatasource, ID: er.Datasource.ID, Name: er.Datasource.Name}
	}
	return task
}

type tasksResponse struct {
	Page  pagination `json:"pagination"`
	Tasks struct {
		Task []taskWire `json:"task"`
	} `json:"tasks"`
}

func (r tasksResponse) page() pagination  { return r.Page }
func (r tasksResponse) items() []taskWire { return r.Tasks.Task }

// favoriteWire carries the per-target nested references of a favorite
// listing entry.
type favoriteWire struct {
	Label      string        `json:"label"`
	Workbook   *models.IDRef `json:"workbook,omitempty"`
	View       *models.IDRef `json:"view,omitempty"`
	Datasource *models.IDRef `json:"datasource,omitempty"`
	Project    *models.IDRef `json:"project,omitempty"`
	Flow       *models.IDRef `json:"flow,omitempty"`
}

// target resolves which nested reference is populated.
func (w favoriteWire) target() (models.Target, bool) {
	switch {
	case w.Workbook != nil:
		return models.Target{Type: models.TargetWorkbook, ID: w.Workbook.ID, Name: w.Workbook.Name}, true
	case w.View != nil:
		return models.Target{Type: models.TargetView, ID: w.View.ID, Name: w.View.Name}, true
	case w.Datasource != nil:
		return models.Target{Type: models.TargetDatasource, ID: w.Datasource.ID, Name: w.Datasource.Name}, true
	case w.Project != nil:
		return models.Target{Type: models.TargetProject, ID: w.Project.ID, Name: w.Project.Name}, true
	case w.Flow != nil:
		return models.Target{Type: models.TargetFlow, ID: w.Flow.ID, Name: w.Flow.Name}, true
	}
	return models.Target{}, false
}

type favoritesResponse struct {
	Page      pagination `json:"pagination"`
	Favorites struct {
		Favorite []favoriteWire `json:"favorite"`
	} `json:"favorites"`
}

func (r favoritesResponse) page() pagination      { return r.Page }
func (r favoritesResponse) items() []favoriteWire { return r.Favorites.Favorite }

// Users lists every user on the site.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	q := url.Values{}
	q.Set("fields", "_all_")
	return listAll[usersResponse, models.User](ctx, c, c.sitePath("users"), q)
}

// Groups lists every group on the site.
func (c *Client) Groups(ctx context.Context) ([]models.Group, error) {
	return listAll[groupsResponse, models.Group](ctx, c, c.sitePath("groups"), nil)
}

// Projects lists every project on the site.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	return listAll[projectsResponse, models.Project](ctx, c, c.sitePath("projects"), nil)
}

// Datasources lists every published data source on the site.
func (c *Client) Datasources(ctx context.Context) ([]models.Datasource, error) {
	return listAll[datasourcesResponse, models.Datasource](ctx, c, c.sitePath("datasources"), nil)
}

// Workbooks lists every workbook on the site.
func (c *Client) Workbooks(ctx context.Context) ([]models.Workbook, error) {
	return listAll[workbooksResponse, models.Workbook](ctx, c, c.sitePath("workbooks"), nil)
}

// Views lists every view on the site, including hidden sheet views.
func (c *Client) Views(ctx context.Context) ([]models.View, error) {
	q := url.Values{}
	q.Set("fields", "_all_")
	return listAll[viewsResponse, models.View](ctx, c, c.sitePath("views"), q)
}

// Flows lists every prep flow on the site.
func (c *Client) Flows(ctx context.Context) ([]models.Flow, error) {
	return listAll[flowsResponse, models.Flow](ctx, c, c.sitePath("flows"), nil)
}

// CustomViews lists every custom view on the site.
func (c *Client) CustomViews(ctx context.Context) ([]models.CustomView, error) {
	return listAll[customViewsResponse, models.CustomView](ctx, c, c.sitePath("customviews"), nil)
}

// Schedules lists the server-wide schedule summaries. Interval details
// require a per-schedule ScheduleDetails call; the listing endpoint is
// not site-scoped.
func (c *Client) Schedules(ctx context.Context) ([]models.Schedule, error) {
	return listAll[schedulesResponse, models.Schedule](ctx, c, fmt.Sprintf("/api/%s/schedules", c.version), nil)
}

type scheduleDetailResponse struct {
	Schedule models.Schedule `json:"schedule"`
}

// ScheduleDetails fetches one schedule including its frequencyDetails
// and interval atoms.
func (c *Client) ScheduleDetails(ctx context.Context, scheduleID string) (models.Schedule, error) {
	var resp scheduleDetailResponse
	path := fmt.Sprintf("/api/%s/schedules/%s", c.version, scheduleID)
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return models.Schedule{}, err
	}
	return resp.Schedule, nil
}

// Subscriptions lists every subscription on the site.
func (c *Client) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	return listAll[subscriptionsResponse, models.Subscription](ctx, c, c.sitePath("subscriptions"), nil)
}

// ExtractRefreshTasks lists every extract refresh task on the site.
func (c *Client) ExtractRefreshTasks(ctx context.Context) ([]models.Task, error) {
	wires, err := listAll[tasksResponse, taskWire](ctx, c, c.sitePath("tasks/extractRefreshes"), nil)
	if err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(wires))
	for _, w := range wires {
		tasks = append(tasks, w.toTask())
	}
	return tasks, nil
}

// FavoritesForUser lists one user's favorites. Entries whose target
// kind is not migratable (for example metrics) are dropped.
func (c *Client) FavoritesForUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	wires, err := listAll[favoritesResponse, favoriteWire](ctx, c, c.sitePath("favorites/"+userID), nil)
	if err != nil {
		return nil, err
	}
	favorites := make([]models.Favorite, 0, len(wires))
	for _, w := range wires {
		target, ok := w.target()
		if !ok {
			continue
		}
		favorites = append(favorites, models.Favorite{
			UserID: userID,
			Label:  w.Label,
			Target: target,
		})
	}
	return favorites, nil
}

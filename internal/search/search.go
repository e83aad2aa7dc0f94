// Package search gathers live context for the realtime answer channel:
// encyclopedia summary, weather, and headlines, fetched concurrently. Every
// source degrades to a placeholder on failure so an answer is always
// produced.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var cityPattern = regexp.MustCompile(`(?i)weather in ([a-zA-Z\s]+)`)

// Engine fetches realtime context from public APIs.
type Engine struct {
	client      *http.Client
	log         *zap.Logger
	weatherKey  string
	newsKey     string
	defaultCity string

	wikiBase    string
	weatherBase string
	newsBase    string
}

// New creates an engine. Sources whose API key is empty are skipped.
func New(log *zap.Logger, weatherKey, newsKey, defaultCity string) *Engine {
	if defaultCity == "" {
		defaultCity = "London"
	}
	return &Engine{
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log,
		weatherKey:  weatherKey,
		newsKey:     newsKey,
		defaultCity: defaultCity,
		wikiBase:    "https://en.wikipedia.org/api/rest_v1",
		weatherBase: "https://api.openweathermap.org/data/2.5",
		newsBase:    "https://newsapi.org/v2",
	}
}

// Gather fetches all context sources concurrently and joins their non-empty
// sections. Individual source failures are logged and replaced with
// placeholders.
func (e *Engine) Gather(ctx context.Context, query string) string {
	var wiki, weather, news string

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wiki = e.wikipedia(ctx, query)
		return nil
	})
	g.Go(func() error {
		weather = e.weather(ctx, query)
		return nil
	})
	g.Go(func() error {
		news = e.news(ctx, query)
		return nil
	})
	g.Wait()

	var sections []string
	for _, s := range []string{wiki, weather, news} {
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

type wikiSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func (e *Engine) wikipedia(ctx context.Context, query string) string {
	title := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(query), " ", "_"))
	var result wikiSummary
	err := e.getJSON(ctx, e.wikiBase+"/page/summary/"+title, &result)
	if err != nil || result.Extract == "" {
		e.log.Debug("wikipedia lookup failed", zap.Error(err))
		return "[Wikipedia]\nNo relevant summary found."
	}
	return "[Wikipedia]\n" + result.Extract
}

type weatherResponse struct {
	Main *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (e *Engine) weather(ctx context.Context, query string) string {
	if e.weatherKey == "" {
		return ""
	}
	city := e.defaultCity
	if m := cityPattern.FindStringSubmatch(query); m != nil {
		city = strings.TrimSpace(m[1])
	}

	u := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		e.weatherBase, url.QueryEscape(city), e.weatherKey)
	var result weatherResponse
	if err := e.getJSON(ctx, u, &result); err != nil || result.Main == nil || len(result.Weather) == 0 {
		e.log.Debug("weather lookup failed", zap.String("city", city), zap.Error(err))
		return fmt.Sprintf("[Weather]\nCould not fetch weather for %s.", city)
	}
	return fmt.Sprintf("[Weather]\n%s: %.1f°C, %s", city, result.Main.Temp, result.Weather[0].Description)
}

type newsResponse struct {
	Articles []struct {
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (e *Engine) news(ctx context.Context, query string) string {
	if e.newsKey == "" {
		return ""
	}
	u := fmt.Sprintf("%s/everything?q=%s&pageSize=3&apiKey=%s",
		e.newsBase, url.QueryEscape(query), e.newsKey)
	var result newsResponse
	if err := e.getJSON(ctx, u, &result); err != nil || len(result.Articles) == 0 {
		e.log.Debug("news lookup failed", zap.Error(err))
		return "[News]\nNo recent news found."
	}

	var b strings.Builder
	b.WriteString("[News]")
	for _, a := range result.Articles {
		fmt.Fprintf(&b, "\n- %s (%s)", a.Title, a.Source.Name)
	}
	return b.String()
}

func (e *Engine) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

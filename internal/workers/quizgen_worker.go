package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/quizmentor/quizmentor/internal/providers/llm"
	"github.com/quizmentor/quizmentor/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// QuizGenWorkerPool consumes generation jobs from the quizgen stream,
// calls the model, and stores the resulting questions. Status updates are
// published on "quizgen:{course_id}:status".
type QuizGenWorkerPool struct {
	Redis      *redis.Client
	Quizzes    services.QuizService
	Courses    services.CourseService
	Generator  llm.QuestionGenerator
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *QuizGenWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Quizzes == nil || p.Courses == nil || p.Generator == nil {
		return errors.New("QuizGenWorkerPool missing dependency: Redis/Quizzes/Courses/Generator must be set")
	}
	if p.Stream == "" {
		p.Stream = services.QuizGenStream
	}
	if p.Group == "" {
		p.Group = "quizgen-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *QuizGenWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *QuizGenWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	courseID := getStr("course_id")
	topicID := getStr("topic_id")
	if courseID == "" || topicID == "" {
		return
	}
	count, _ := strconv.Atoi(getStr("count"))
	difficulty, _ := strconv.Atoi(getStr("difficulty"))
	if count <= 0 {
		count = 10
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"course_id":  courseID,
		"topic_id":   topicID,
		"count":      count,
		"difficulty": difficulty,
	})

	statusCh := "quizgen:" + courseID + ":status"
	_ = p.Redis.Publish(ctx, statusCh, `{"type":"status","status":"processing","message":"generating questions","topic_id":"`+topicID+`"}`).Err()

	course, err := p.Courses.Get(ctx, courseID)
	if err != nil {
		log.WithError(err).Warn("unknown course in generation job")
		_ = p.Redis.Publish(ctx, statusCh, `{"type":"status","status":"failed","message":"unknown course","topic_id":"`+topicID+`"}`).Err()
		return
	}
	topicName := topicID
	if topics, err := p.Courses.ListTopics(ctx, courseID); err == nil {
		for _, t := range topics {
			if t.ID == topicID {
				topicName = t.Name
				break
			}
		}
	}

	start := time.Now()
	qs, err := p.Generator.GenerateQuestions(ctx, llm.QuestionRequest{
		CourseName: course.Name,
		TopicName:  topicName,
		Count:      count,
		Difficulty: difficulty,
	})
	if err != nil {
		log.WithError(err).Error("question generation failed")
		_ = p.Redis.Publish(ctx, statusCh, `{"type":"status","status":"failed","message":"generation failed","topic_id":"`+topicID+`"}`).Err()
		return
	}

	rows, err := p.Quizzes.StoreGenerated(ctx, courseID, topicID, qs)
	if err != nil {
		log.WithError(err).Error("failed to store generated questions")
		_ = p.Redis.Publish(ctx, statusCh, `{"type":"status","status":"failed","message":"storage failed","topic_id":"`+topicID+`"}`).Err()
		return
	}

	donePayload, _ := json.Marshal(map[string]any{
		"type":               "status",
		"status":             "done",
		"topic_id":           topicID,
		"stored":             len(rows),
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
	_ = p.Redis.Publish(ctx, statusCh, string(donePayload)).Err()
	log.WithField("stored", len(rows)).Info("generation job complete")
}

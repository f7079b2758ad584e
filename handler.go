// File: handler.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/leonelquinteros/gotext"
	"io"
	"math/rand"
	"net/http"
	"shapeCaptcha/internal/challenge"
	"shapeCaptcha/internal/utils"
	"sort"
	"time"
)

// Server exposes challenge sessions over HTTP.
type Server struct {
	cfg       challenge.Config
	render    RenderConfig
	store     *Store
	log       *utils.Logger
	locales   *Catalogs
	staticDir string

	// 每个会话的随机源，测试里固定种子
	newRand func() *rand.Rand
}

func NewServer(cfg challenge.Config, store *Store, logger *utils.Logger, locales *Catalogs, staticDir string) *Server {
	return &Server{
		cfg:       cfg,
		render:    CalculateRenderConfig(cfg),
		store:     store,
		log:       logger,
		locales:   locales,
		staticDir: staticDir,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Router wires every endpoint.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc("/api/challenge/start", s.handleStart).Methods("POST")
	r.HandleFunc("/api/challenge/{id}", s.handleState).Methods("GET")
	r.HandleFunc("/api/challenge/{id}", s.handleEnd).Methods("DELETE")
	r.HandleFunc("/api/challenge/{id}/capture", s.handleCapture).Methods("POST")
	r.HandleFunc("/api/challenge/{id}/toggle", s.handleToggle).Methods("POST")
	r.HandleFunc("/api/challenge/{id}/verify", s.handleVerify).Methods("POST")
	r.HandleFunc("/api/challenge/{id}/retry", s.handleRetry).Methods("POST")
	r.HandleFunc("/api/challenge/{id}/image", s.handleImage).Methods("GET")
	r.HandleFunc("/ws/challenge/{id}", s.handleWS).Methods("GET")
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	return r
}

// challengeError 把状态机错误映射成 HTTP 错误
func challengeError(err error) error {
	switch {
	case errors.Is(err, challenge.ErrUnknownCell):
		return utils.New(http.StatusBadRequest, err.Error())
	case errors.Is(err, challenge.ErrWrongPhase), errors.Is(err, challenge.ErrClosed):
		return utils.New(http.StatusConflict, err.Error())
	}
	return err
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *challenge.Session, bool) {
	id := mux.Vars(r)["id"]
	sess, ok := s.store.Get(id)
	if !ok {
		http.Error(w, "uuid not found", http.StatusNotFound)
		return "", nil, false
	}
	return id, sess, true
}

// decodeBody decodes an optional JSON body into v.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return utils.New(http.StatusBadRequest, "invalid json")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// state describes snap to the browser, with the challenge image when
// withImage is set and a grid exists.
func (s *Server) state(po *gotext.Po, sess *challenge.Session, snap challenge.Snapshot, withImage bool) (StateResponse, error) {
	rsp := StateResponse{
		Phase:       snap.Phase,
		Region:      snap.Region,
		Attempts:    snap.Attempts,
		MaxAttempts: snap.MaxAttempts,
		Outcome:     snap.Outcome,
		Target:      snap.Target,
		Prompt:      prompt(po, snap.Phase, snap.Target),
	}
	if snap.Grid == nil {
		return rsp, nil
	}
	rsp.Rows, rsp.Cols = snap.Grid.Rows, snap.Grid.Cols
	rsp.Cells = snap.Grid.Cells
	rsp.Regions = snap.Grid.Labels()
	if withImage {
		png, err := RenderChallenge(sess.Frame(), snap.Region, snap.Grid, s.render)
		if err != nil {
			return rsp, fmt.Errorf("render challenge: %w", err)
		}
		rsp.Image = pngDataURI(png)
	}
	return rsp, nil
}

func (s *Server) writeState(w http.ResponseWriter, r *http.Request, sess *challenge.Session, withImage bool) {
	rsp, err := s.state(s.locales.For(r), sess, sess.Snapshot(), withImage)
	if err != nil {
		s.log.Errorf("%v", err)
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, rsp)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	id, sess := s.store.Create(challenge.WithRand(s.newRand()))
	s.log.Infof("Challenge %s started", id)

	rsp, err := s.state(s.locales.For(r), sess, sess.Snapshot(), false)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, StartResponse{UUID: id, StateResponse: rsp})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeState(w, r, sess, true)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.session(w, r)
	if !ok {
		return
	}
	s.store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req CaptureRequest
	if err := decodeBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	// 1) 解析摄像头画面
	frame, err := DecodeDataURI(req.Frame)
	if err != nil {
		http.Error(w, "invalid frame: "+err.Error(), http.StatusBadRequest)
		return
	}
	// 没有摄像头就用黑色画面
	if frame == nil {
		s.log.Warnf("Challenge %s: no camera frame, capturing a black frame", id)
		frame = BlackFrame(s.cfg.FrameWidth, s.cfg.FrameHeight)
	}

	// 2) 锁定区域，生成目标和网格
	if err := sess.Capture(frame); err != nil {
		utils.WriteError(w, challengeError(err))
		return
	}
	// 3) 记录答案并返回图片
	s.logAnswers(id, sess.Snapshot())
	s.writeState(w, r, sess, true)
}

// logAnswers 记录正确答案的格子标签
func (s *Server) logAnswers(id string, snap challenge.Snapshot) {
	if snap.Grid == nil || snap.Target == nil {
		return
	}
	var answers []string
	challenge.MatchingIDs(snap.Grid, *snap.Target).Each(func(i int) {
		answers = append(answers, snap.Grid.Cells[i].Label)
	})
	sort.Strings(answers)
	s.log.Infof("Challenge %s Target: %+v Correct Answers: %v", id, *snap.Target, answers)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req ToggleRequest
	if err := decodeBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := sess.Toggle(req.Cell); err != nil {
		utils.WriteError(w, challengeError(err))
		return
	}
	s.writeState(w, r, sess, true)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req VerifyRequest
	if err := decodeBody(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	// 批量提交的选择覆盖当前选择
	if req.Selections != nil {
		if err := sess.Select(req.Selections); err != nil {
			utils.WriteError(w, challengeError(err))
			return
		}
	}

	// 对比答案
	out, err := sess.Validate()
	if err != nil {
		utils.WriteError(w, challengeError(err))
		return
	}
	snap := sess.Snapshot()
	s.log.Infof("Challenge %s verified: %s (%d/%d attempts)", id, snap.Phase, snap.Attempts, snap.MaxAttempts)
	writeJSON(w, VerifyResponse{
		Success:     out == challenge.Pass,
		Message:     outcomeMessage(s.locales.For(r), snap.Phase),
		Phase:       snap.Phase,
		Attempts:    snap.Attempts,
		MaxAttempts: snap.MaxAttempts,
	})
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Retry(); err != nil {
		utils.WriteError(w, challengeError(err))
		return
	}
	s.writeState(w, r, sess, false)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()
	if snap.Grid == nil {
		http.Error(w, "nothing captured", http.StatusConflict)
		return
	}
	png, err := RenderChallenge(sess.Frame(), snap.Region, snap.Grid, s.render)
	if err != nil {
		s.log.Errorf("render challenge: %v", err)
		http.Error(w, "failed to draw challenge", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Command ipc_dog_seed writes a detection record into shared memory the way
// the detector does, so the reader can be exercised without the model.
//
//	ipc_dog_seed -det 0.87,10,20,30,40 -det 16,0.55,120,40,60,80
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/logger"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/record"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/shm"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/pkg/types"
)

// detectionList collects repeated -det flags.
type detectionList []types.Detection

func (l *detectionList) String() string {
	parts := make([]string, len(*l))
	for i, d := range *l {
		parts[i] = fmt.Sprintf("%d,%.2f,%d,%d,%d,%d", d.ClassID, d.Confidence, d.X, d.Y, d.W, d.H)
	}
	return strings.Join(parts, " ")
}

func (l *detectionList) Set(s string) error {
	d, err := parseDetection(s)
	if err != nil {
		return err
	}
	*l = append(*l, d)
	return nil
}

// parseDetection accepts "class,conf,x,y,w,h" or "conf,x,y,w,h" (class = dog).
func parseDetection(s string) (types.Detection, error) {
	fields := strings.Split(s, ",")
	if len(fields) == 5 {
		fields = append([]string{strconv.Itoa(int(types.ClassDog))}, fields...)
	}
	if len(fields) != 6 {
		return types.Detection{}, fmt.Errorf("want class,conf,x,y,w,h; got %q", s)
	}

	ints := make([]int32, 0, 5)
	for i, f := range fields {
		if i == 1 {
			continue
		}
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return types.Detection{}, fmt.Errorf("field %d of %q: %w", i, s, err)
		}
		ints = append(ints, int32(v))
	}
	conf, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 32)
	if err != nil {
		return types.Detection{}, fmt.Errorf("confidence of %q: %w", s, err)
	}

	return types.Detection{
		ClassID:    ints[0],
		Confidence: float32(conf),
		X:          ints[1],
		Y:          ints[2],
		W:          ints[3],
		H:          ints[4],
	}, nil
}

func main() {
	var dets detectionList

	shmName := flag.String("shm", shm.DefaultName, "Shared memory object name")
	shmDir := flag.String("shm-dir", shm.DefaultDir, "Directory backing POSIX shared memory")
	remove := flag.Bool("rm", false, "Unlink the shared memory object and exit")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error, silent)")
	flag.Var(&dets, "det", "Detection as class,conf,x,y,w,h or conf,x,y,w,h (repeatable, max 10)")
	flag.Parse()

	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger.Init(level, os.Stderr, false)

	if *remove {
		if err := shm.Remove(*shmDir, *shmName); err != nil {
			log.Fatalf("%v", err)
		}
		logger.Info("Seed", "Removed %s", *shmName)
		return
	}

	rec, err := record.FromDetections(dets)
	if err != nil {
		log.Fatalf("%v", err)
	}
	payload, err := record.Encode(rec)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := shm.WriteObject(*shmDir, *shmName, payload); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("Dog detections written to shared memory. Count = %d\n", rec.Count)
}

// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/racetrack/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished. Save saves to the Tracker's own
// file, while SaveAs saves to an arbitrary file so that data can be
// checkpointed during an experiment.
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
	SaveAs(filename string) error
}

// save gob encodes data to filename
func save(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return file.Close()
}

// load gob decodes the data in filename into data
func load(filename string, data interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load: could not open data file: %w", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	if err = dec.Decode(data); err != nil {
		return fmt.Errorf("load: could not decode data: %w", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Return Tracker
func LoadData(filename string) ([]float64, error) {
	var data []float64
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadData: %w", err)
	}
	return data, nil
}

// LoadLengths loads and returns the data saved by an EpisodeLength
// Tracker
func LoadLengths(filename string) ([]int, error) {
	var data []int
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadLengths: %w", err)
	}
	return data, nil
}

// LoadEndReasons loads and returns the data saved by an EndReason
// Tracker
func LoadEndReasons(filename string) ([]ts.EndType, error) {
	var data []ts.EndType
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadEndReasons: %w", err)
	}
	return data, nil
}

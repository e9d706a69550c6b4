package docker

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/bnema/zerowrap"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/volume"

	"github.com/bnema/gateway-core/internal/domain"
)

// initVolumes makes the set of volumes labeled with the container name equal
// to the set declared in its deployment config.
func (r *Runtime) initVolumes(ctx context.Context, containerName string, volumes map[string]string) error {
	log := zerowrap.FromCtx(ctx)

	desired := make(map[string]struct{}, len(volumes))
	for volumeName := range volumes {
		desired[domain.VolumeName(containerName, volumeName)] = struct{}{}
	}

	existing, err := r.labeledVolumes(ctx, containerName)
	if err != nil {
		log.Error().Err(err).Msg("can't list volumes")
		return classify("list volumes", containerName, err)
	}

	for _, name := range slices.Sorted(maps.Keys(desired)) {
		if _, ok := existing[name]; ok {
			continue
		}
		if err := r.createVolume(ctx, containerName, name); err != nil {
			return err
		}
	}

	for _, name := range slices.Sorted(maps.Keys(existing)) {
		if _, ok := desired[name]; ok {
			continue
		}
		if err := r.removeVolume(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// labeledVolumes returns the names of the volumes owned by a container.
func (r *Runtime) labeledVolumes(ctx context.Context, containerName string) (map[string]struct{}, error) {
	resp, err := r.client.VolumeList(ctx, volume.ListOptions{
		Filters: filters.NewArgs(filters.Arg("label", containerName)),
	})
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(resp.Volumes))
	for _, v := range resp.Volumes {
		names[v.Name] = struct{}{}
	}
	return names, nil
}

func (r *Runtime) createVolume(ctx context.Context, containerName, name string) error {
	ctx = zerowrap.CtxWithField(ctx, "volume", name)
	log := zerowrap.FromCtx(ctx)

	_, err := r.client.VolumeCreate(ctx, volume.CreateOptions{
		Name:   name,
		Labels: map[string]string{containerName: ""},
	})
	if err != nil {
		log.Error().Err(err).Msg("can't create volume")
		return classify("create volume", name, err)
	}

	log.Info().Msg("volume created")
	return nil
}

// removeVolume deletes a volume without force: a volume still attached to a
// container fails and is reported.
func (r *Runtime) removeVolume(ctx context.Context, name string) error {
	ctx = zerowrap.CtxWithField(ctx, "volume", name)
	log := zerowrap.FromCtx(ctx)

	if err := r.client.VolumeRemove(ctx, name, false); err != nil {
		log.Error().Err(err).Msg("can't remove volume")
		return classify("remove volume", name, err)
	}

	log.Info().Msg("volume removed")
	return nil
}

// purgeVolumes force-removes every volume owned by a container. It never stops
// halfway: each failure is logged and collected into the returned error.
func (r *Runtime) purgeVolumes(ctx context.Context, containerName string) error {
	log := zerowrap.FromCtx(ctx)

	existing, err := r.labeledVolumes(ctx, containerName)
	if err != nil {
		log.Error().Err(err).Msg("can't list volumes to purge")
		return classify("list volumes", containerName, err)
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(existing)) {
		if err := r.client.VolumeRemove(ctx, name, true); err != nil {
			log.Error().Err(err).Str("volume", name).Msg("can't purge volume")
			errs = append(errs, classify("purge volume", name, err))
			continue
		}
		log.Info().Str("volume", name).Msg("volume purged")
	}
	return errors.Join(errs...)
}
